package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CustomId is the structured payload carried by buttons and modals. The
// route ("module:action") selects the handler; every other field is encoded
// independently as a query value, so arbitrary text survives the trip.
type CustomId struct {
	Module string
	Action string
	Values url.Values
}

func NewCustomId(module, action string) *CustomId {
	return &CustomId{Module: module, Action: action, Values: url.Values{}}
}

// Route is the dispatch key for this id.
func (c *CustomId) Route() string {
	return c.Module + ":" + c.Action
}

func (c *CustomId) With(key, value string) *CustomId {
	c.Values.Set(key, value)
	return c
}

func (c *CustomId) WithInt(key string, value int) *CustomId {
	return c.With(key, strconv.Itoa(value))
}

func (c *CustomId) WithFloat(key string, value float64) *CustomId {
	return c.With(key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (c *CustomId) Get(key string) string {
	return c.Values.Get(key)
}

func (c *CustomId) GetInt(key string) (int, error) {
	return strconv.Atoi(c.Values.Get(key))
}

func (c *CustomId) GetFloat(key string) (float64, error) {
	return strconv.ParseFloat(c.Values.Get(key), 64)
}

func (c *CustomId) ToString() string {
	if len(c.Values) == 0 {
		return c.Route()
	}
	return c.Route() + "?" + c.Values.Encode()
}

func (c *CustomId) FromString(source string) error {
	route, query, _ := strings.Cut(source, "?")
	module, action, ok := strings.Cut(route, ":")
	if !ok || module == "" || action == "" {
		return fmt.Errorf("malformed custom id %q", source)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return fmt.Errorf("malformed custom id %q: %w", source, err)
	}

	c.Module = module
	c.Action = action
	c.Values = values
	return nil
}

func ParseCustomId(source string) (*CustomId, error) {
	c := &CustomId{}
	if err := c.FromString(source); err != nil {
		return nil, err
	}
	return c, nil
}
