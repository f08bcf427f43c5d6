package database

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns []string
}

// secondaryIndexes are created outside of the model tags so their names stay
// stable across drivers.
var secondaryIndexes = []index{
	// Admin lookups filter by organization and role
	{"organization_members", "idx_org_member_role", []string{"org_id", "role"}},
	// Listing a user's organizations
	{"organization_members", "idx_org_members_user_id", []string{"user_id"}},
}

// AddIndexes adds the secondary indexes that are missing.
func AddIndexes(db *gorm.DB, log logrus.FieldLogger) error {
	migrator := db.Migrator()

	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index": idx.name,
			"table": idx.table,
		}).Info("Created index")
	}

	return nil
}
