package auth

import (
	"fmt"
	"strings"

	"portfolio-cms/internal/logger"

	"github.com/casbin/casbin/v2"
)

// AdminPolicies are the rules granted to the admin role.
var AdminPolicies = [][]string{
	{RoleAdmin, "/api/admin/*", "*"},
	{RoleAdmin, "/api/content/validate-slug", "POST"},
	{RoleAdmin, "/api/page-builder/*", "POST"},
}

// SeedDefaultPolicies adds the admin rules that are missing. It is safe to
// run on every start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")
	for _, p := range AdminPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}
	log.Info("Policy seeding complete.")
}

// GrantAdmins gives the admin role to every listed account. Subjects are the
// lower-cased e-mail addresses stored in the session at login.
func GrantAdmins(e casbin.IEnforcer, emails []string, log logger.Logger) {
	for _, email := range emails {
		subject := strings.ToLower(strings.TrimSpace(email))
		if subject == "" {
			continue
		}
		if has, _ := e.HasRoleForUser(subject, RoleAdmin); has {
			continue
		}
		if _, err := e.AddRoleForUser(subject, RoleAdmin); err != nil {
			log.Error(err, fmt.Sprintf("Failed to grant admin role to %s", subject))
			continue
		}
		log.Info(fmt.Sprintf("Granted admin role to %s", subject))
	}
}
