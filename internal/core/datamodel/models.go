package datamodel

import (
	activityDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/activity"
	sessionDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/session"
	settingDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/setting"
	ticketDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/user"
)

// All lists every persisted model in dependency order, for gorm AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&ticketDatamodel.Ticket{},
		&ticketDatamodel.StatusHistory{},
		&activityDatamodel.Activity{},
		&settingDatamodel.Setting{},
		&sessionDatamodel.Session{},
	}
}
