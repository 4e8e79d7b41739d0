package cache

import (
	"errors"
	"testing"

	"github.com/jonwraymond/componentstate/codec"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default", cfg: DefaultConfig()},
		{name: "empty codec", cfg: Config{}},
		{name: "json codec", cfg: Config{Codec: codec.JSONName, MaxValueBytes: 1024}},
		{name: "unknown codec", cfg: Config{Codec: "gob"}, wantErr: true},
		{name: "negative max", cfg: Config{MaxValueBytes: -1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestNewStoreFromConfig(t *testing.T) {
	s, err := NewStoreFromConfig(Config{Codec: codec.JSONName, MaxValueBytes: 8})
	if err != nil {
		t.Fatalf("NewStoreFromConfig() error = %v", err)
	}
	if s.Codec().Name() != codec.JSONName {
		t.Errorf("codec = %s, want json", s.Codec().Name())
	}
	if err := s.Set("s", "k", "a long string"); !errors.Is(err, ErrValueTooLarge) {
		t.Errorf("expected ErrValueTooLarge, got %v", err)
	}
}

func TestNewStoreFromConfig_OptionsWin(t *testing.T) {
	s, err := NewStoreFromConfig(Config{Codec: codec.JSONName}, WithCodec(codec.NewGraph()))
	if err != nil {
		t.Fatal(err)
	}
	if s.Codec().Name() != codec.GraphName {
		t.Errorf("codec = %s, want graph", s.Codec().Name())
	}
}

func TestNewStoreFromConfig_Invalid(t *testing.T) {
	if _, err := NewStoreFromConfig(Config{Codec: "xml"}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
