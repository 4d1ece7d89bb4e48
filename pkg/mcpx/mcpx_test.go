package mcpx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInt64(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: `7`, want: 7},
		{in: `"12"`, want: 12},
		{in: `3.0`, want: 3},
		{in: `" 5 "`, want: 5},
		{in: `3.5`, wantErr: true},
		{in: `"abc"`, wantErr: true},
		{in: `true`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v struct {
				ID *Int64 `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.in+`}`), &v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.EqualValues(t, tt.want, *v.ID)
		})
	}

	var v struct {
		ID *Int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":null}`), &v))
	require.Nil(t, v.ID)
}

func TestConfigPrepare(t *testing.T) {
	t.Parallel()
	c := &Config{Transport: " HTTP "}
	c.Prepare()
	require.Equal(t, TransportHTTP, c.Transport)
	require.Equal(t, 3000, c.Port)
	require.Equal(t, "todo-mcp-server", c.Name)
	require.Equal(t, ":3000", c.Addr())
	require.Equal(t, "/mcp", c.Path)

	d := &Config{}
	d.Prepare()
	require.Equal(t, TransportStdio, d.Transport)
}
