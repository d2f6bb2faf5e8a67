package algolia

import (
	"testing"
)

func TestNewAdapter(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: &Config{
				AppID:        "test-app-id",
				WriteAPIKey:  "test-write-key",
				SearchAPIKey: "test-search-key",
				IndexName:    "test-manuals",
			},
			wantErr: false,
		},
		{
			name: "missing app id",
			config: &Config{
				WriteAPIKey: "test-write-key",
				IndexName:   "test-manuals",
			},
			wantErr: true,
		},
		{
			name: "missing write key",
			config: &Config{
				AppID:     "test-app-id",
				IndexName: "test-manuals",
			},
			wantErr: true,
		},
		{
			name: "missing index name",
			config: &Config{
				AppID:       "test-app-id",
				WriteAPIKey: "test-write-key",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, err := NewAdapter(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewAdapter() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && adapter == nil {
				t.Error("NewAdapter() returned nil adapter")
			}
		})
	}
}
