package activity

import (
	"time"

	activityDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/activity"
)

type Activity struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Username    string    `json:"username"`
	Date        time.Time `json:"date"`
}

func FromDataModel(a *activityDatamodel.Activity) *Activity {
	if a == nil {
		return nil
	}
	return &Activity{
		ID:          a.ID,
		Description: a.Description,
		Username:    a.Username,
		Date:        a.Date,
	}
}

func FromDataModels(rows []*activityDatamodel.Activity) []*Activity {
	out := make([]*Activity, 0, len(rows))
	for _, a := range rows {
		out = append(out, FromDataModel(a))
	}
	return out
}
