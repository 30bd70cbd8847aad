package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrent/csrent-cli/internal/log"
	"github.com/csrent/csrent-cli/internal/mock"
	"github.com/csrent/csrent-cli/internal/resource"
)

func TestServe_StopsOnCancel(t *testing.T) {
	store, err := mock.Open("")
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, mock.NewRouter(store, log.Discard())) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/space")
	require.NoError(t, err)
	var spaces []resource.Space
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&spaces))
	resp.Body.Close()
	assert.Len(t, spaces, 3)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
