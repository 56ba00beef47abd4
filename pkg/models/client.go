// Package models holds the records the console keeps: clients, the plan and
// server catalog, message templates and the notification history.
package models

import "github.com/PancyStudios/WTVConsoleGo/pkg/calendar"

// Client is one IPTV subscriber
type Client struct {
	ID             string        `bson:"_id" json:"id"`
	FullName       string        `bson:"fullName" json:"fullName" validate:"required"`
	Phone          string        `bson:"phone" json:"phone" validate:"required"`
	CityState      string        `bson:"cityState" json:"cityState" validate:"required"`
	IPTVLogin      string        `bson:"iptvLogin" json:"iptvLogin" validate:"required"`
	IPTVPassword   string        `bson:"iptvPassword,omitempty" json:"iptvPassword,omitempty"`
	ActivationDate calendar.Date `bson:"activationDate" json:"activationDate"`
	ExpirationDate calendar.Date `bson:"expirationDate" json:"expirationDate"`
	PlanID         string        `bson:"planId" json:"planId" validate:"required"`
	ServerID       string        `bson:"serverId" json:"serverId" validate:"required"`
	HasReminder    bool          `bson:"hasReminder" json:"hasReminder"`
}

// GetID exposes the id to generic stores
func (c Client) GetID() string { return c.ID }

// WithID returns a copy carrying id
func (c Client) WithID(id string) Client {
	c.ID = id
	return c
}
