package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// RoleAdmin is the role allowed to use the admin API.
const RoleAdmin = "admin"

// accessModel is a RESTful RBAC model: subjects inherit roles through g,
// objects are matched with keyMatch2 and "*" allows every method.
const accessModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// NewEnforcer creates a Casbin enforcer whose policies live in the
// application database (table casbin_rule) and loads them.
func NewEnforcer(driverName, dsn string) (*casbin.Enforcer, error) {
	adapter := sqlxadapter.NewAdapterFromOptions(&sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	})
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// NewMemoryEnforcer creates an enforcer without persistence. Policies added
// to it are lost on exit.
func NewMemoryEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(accessModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	return enforcer, nil
}
