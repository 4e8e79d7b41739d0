package codec

import (
	"errors"
	"testing"
)

func TestJSON_RoundTrip(t *testing.T) {
	c := NewJSON()
	data, err := c.Marshal(map[string]any{"y": 10})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"y":10}` {
		t.Errorf("Marshal = %s", data)
	}

	var out map[string]int
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out["y"] != 10 {
		t.Errorf("y = %d, want 10", out["y"])
	}
}

func TestJSON_RejectsCycles(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	if _, err := NewJSON().Marshal(m); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("expected ErrUnsupportedValue, got %v", err)
	}
}

func TestJSON_Errors(t *testing.T) {
	c := NewJSON()
	if _, err := c.Marshal(make(chan int)); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("chan: expected ErrUnsupportedType, got %v", err)
	}
	var out any
	if err := c.Unmarshal([]byte(`{`), &out); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
	if err := c.Unmarshal([]byte(`1`), nil); !errors.Is(err, ErrNilTarget) {
		t.Errorf("expected ErrNilTarget, got %v", err)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: GraphName},
		{name: "graph", want: GraphName},
		{name: "json", want: JSONName},
		{name: "gob", wantErr: true},
	}

	for _, tt := range tests {
		c, err := ByName(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCodec) {
				t.Errorf("ByName(%q) error = %v, want ErrUnknownCodec", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ByName(%q) failed: %v", tt.name, err)
		}
		if c.Name() != tt.want {
			t.Errorf("ByName(%q).Name() = %q, want %q", tt.name, c.Name(), tt.want)
		}
	}
}
