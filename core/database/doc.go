// Package database handles the connection used by the database-backed remote store.
//
// It wraps GORM to open either MySQL or SQLite based on the application's configuration.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and pings the
// server. SQLite connections are limited to one open connection so that ":memory:"
// databases are shared by every query.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns verify that the event_stats table has the columns the
// remote store expects before counts are read back.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "event_stats", []string{"name", "total"})
package database
