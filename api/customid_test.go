package api

import "testing"

func TestCustomId(t *testing.T) {
	t.Run("round trip keeps reserved characters", func(t *testing.T) {
		id := NewCustomId("polls", "select").
			With("poll", "0b7c2a34-5e0c-4c36-9d8a-6f3b1d2c9e10").
			With("label", "a:b&c=d?e").
			WithInt("option", 3)

		parsed, err := ParseCustomId(id.ToString())
		if err != nil {
			t.Fatal(err)
		}
		if parsed.Route() != "polls:select" {
			t.Errorf("Route() = %q", parsed.Route())
		}
		if parsed.Get("poll") != "0b7c2a34-5e0c-4c36-9d8a-6f3b1d2c9e10" {
			t.Errorf("poll = %q", parsed.Get("poll"))
		}
		if parsed.Get("label") != "a:b&c=d?e" {
			t.Errorf("label = %q", parsed.Get("label"))
		}
		if option, err := parsed.GetInt("option"); err != nil || option != 3 {
			t.Errorf("option = %d, %v", option, err)
		}
	})

	t.Run("floats", func(t *testing.T) {
		id := NewCustomId("polls", "create").WithFloat("timeframe", 0.161616)
		parsed, err := ParseCustomId(id.ToString())
		if err != nil {
			t.Fatal(err)
		}
		if got, err := parsed.GetFloat("timeframe"); err != nil || got != 0.161616 {
			t.Errorf("timeframe = %v, %v", got, err)
		}
	})

	t.Run("route only", func(t *testing.T) {
		id := NewCustomId("polls", "refresh")
		if id.ToString() != "polls:refresh" {
			t.Errorf("ToString() = %q", id.ToString())
		}
		parsed, err := ParseCustomId("polls:refresh")
		if err != nil || parsed.Route() != "polls:refresh" {
			t.Errorf("ParseCustomId() = %+v, %v", parsed, err)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, source := range []string{"", "vote:", ":select", "polls", "polls:select?%zz"} {
			if _, err := ParseCustomId(source); err == nil {
				t.Errorf("ParseCustomId(%q) succeeded", source)
			}
		}
	})
}
