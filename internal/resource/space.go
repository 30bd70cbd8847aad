package resource

import (
	"strconv"

	"github.com/shopspring/decimal"
)

type Space struct {
	ID          ID      `json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Capacity    int     `json:"capacity"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

func (s Space) RecordID() ID { return s.ID }

// SpaceInput is the body of POST /space and PUT /space/{id}.
type SpaceInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location" validate:"required"`
	Capacity    int     `json:"capacity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Available   bool    `json:"available"`
}

type SpaceSchema struct{}

var Spaces SpaceSchema

var SpaceKind = Kind{Name: "space", Plural: "spaces", Title: "Space", Path: "/space"}

func (SpaceSchema) Kind() Kind { return SpaceKind }

func (SpaceSchema) Columns() []Column {
	return []Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 18},
		{Title: "Description", Width: 24},
		{Title: "Location", Width: 16},
		{Title: "Capacity", Width: 8},
		{Title: "Price", Width: 10},
		{Title: "Status", Width: 13},
	}
}

func (SpaceSchema) Cells(s Space) []Cell {
	return []Cell{
		number(int64(s.ID)),
		text(s.Name),
		text(s.Description),
		text(s.Location),
		number(int64(s.Capacity)),
		{Text: FormatPrice(s.Price)},
		StatusBadge(s.Available),
	}
}

var availabilityOptions = []Option{
	{Value: "true", Label: "Disponible"},
	{Value: "false", Label: "No disponible"},
}

func (SpaceSchema) Fields(Mode) []Field {
	return []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "description", Label: "Description"},
		{Name: "location", Label: "Location", Required: true},
		{Name: "capacity", Label: "Capacity", Required: true},
		{Name: "price", Label: "Price", Required: true},
		{Name: "available", Label: "Status", Required: true, Options: availabilityOptions},
	}
}

func (SpaceSchema) FormFrom(s Space) Form {
	return Form{
		FieldID:       s.ID.String(),
		"name":        s.Name,
		"description": s.Description,
		"location":    s.Location,
		"capacity":    strconv.Itoa(s.Capacity),
		"price":       decimal.NewFromFloat(s.Price).String(),
		"available":   strconv.FormatBool(s.Available),
	}
}

func (SpaceSchema) Payload(f Form, _ Mode) (any, error) {
	in := SpaceInput{
		Name:        f.Get("name"),
		Description: f.Get("description"),
		Location:    f.Get("location"),
		Available:   f.Get("available") == "true",
	}
	// Text fields first so errors surface in form order.
	if err := Validate(in); err != nil {
		return nil, err
	}
	capacity, err := requiredInt(f, "capacity")
	if err != nil {
		return nil, err
	}
	price, err := requiredDecimal(f, "price")
	if err != nil {
		return nil, err
	}
	in.Capacity = capacity
	in.Price = price.InexactFloat64()
	if err := Validate(in); err != nil {
		return nil, err
	}
	return in, nil
}
