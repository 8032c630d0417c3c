// Package database connects the primary relational store and inspects its schema.
//
// It wraps GORM and selects the dialector from the configuration: postgres
// (the usual managed deployment), mysql, or sqlite for local runs and tests.
// The store is optional; Config.Configured reports whether one is set and
// Connect returns ErrNotConfigured otherwise.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for each supported dialect. The
// integrity feature compares them with the registration row model.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Primary store unavailable", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "registrations")
package database
