package repositories

import (
	"certidigital/internal/database"

	"go.uber.org/zap"
)

// NewCollection wires every repository against the shared pool.
func NewCollection(q database.Executor, logger *zap.Logger) *Collection {
	return &Collection{
		Organizations: NewOrganizationRepository(q, logger),
		Recipients:    NewRecipientRepository(q, logger),
		Badges:        NewBadgeRepository(q, logger),
		Skills:        NewSkillRepository(q, logger),
		Criteria:      NewCriterionRepository(q, logger),
		Templates:     NewTemplateRepository(q, logger),
		Certificates:  NewCertificateRepository(q, logger),
	}
}
