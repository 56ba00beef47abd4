package models

// Plan is a subscription offer
type Plan struct {
	ID           string `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name" validate:"required"`
	Description  string `bson:"description" json:"description"`
	MonthlyValue Money  `bson:"monthlyValue" json:"monthlyValue"`
}

func (p Plan) GetID() string { return p.ID }

func (p Plan) WithID(id string) Plan {
	p.ID = id
	return p
}

// Server is an IPTV panel the client is provisioned on
type Server struct {
	ID   string `bson:"_id" json:"id"`
	Name string `bson:"name" json:"name" validate:"required"`
	URL  string `bson:"url" json:"url" validate:"required"`
}

func (s Server) GetID() string { return s.ID }

func (s Server) WithID(id string) Server {
	s.ID = id
	return s
}

// MessageTemplate is message text with [Nome], [Plano], [Vencimento] and
// [Valor] tokens.
type MessageTemplate struct {
	ID      string `bson:"_id" json:"id"`
	Name    string `bson:"name" json:"name" validate:"required"`
	Content string `bson:"content" json:"content" validate:"required"`
}

func (t MessageTemplate) GetID() string { return t.ID }

func (t MessageTemplate) WithID(id string) MessageTemplate {
	t.ID = id
	return t
}
