package steam

import (
	"errors"
	"testing"
)

func TestResolveSteamID_TradeLink(t *testing.T) {
	tests := []struct {
		name      string
		tradeLink string
		rawID     string
		want      string
		wantErr   bool
	}{
		{
			name:      "partner id converts with fixed offset",
			tradeLink: "https://steamcommunity.com/tradeoffer/new/?partner=123456&token=abcdefg",
			want:      "76561197960389184",
		},
		{
			name:      "partner one",
			tradeLink: "https://steamcommunity.com/tradeoffer/new/?partner=1",
			want:      "76561197960265729",
		},
		{
			name:      "raw steam id passes through",
			rawID:     "76561198084749846",
			want:      "76561198084749846",
		},
		{
			name:      "raw id wins over trade link",
			tradeLink: "https://steamcommunity.com/tradeoffer/new/?partner=123456",
			rawID:     "76561198084749846",
			want:      "76561198084749846",
		},
		{
			name:      "link without partner fails",
			tradeLink: "https://steamcommunity.com/tradeoffer/new/?token=abcdefg",
			wantErr:   true,
		},
		{
			name:    "empty input fails",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveSteamID(tt.tradeLink, tt.rawID)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTradeLink) {
					t.Fatalf("expected ErrInvalidTradeLink, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
