package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"avalam/game"
	"avalam/metrics"

	"github.com/pkg/errors"
)

type remoteAgent struct {
	url    string
	client *http.Client
}

// NewRemoteAgent forwards every decision to an agent Server at url.
func NewRemoteAgent(url string, client *http.Client) Agent {
	if client == nil {
		client = http.DefaultClient
	}
	return &remoteAgent{url: strings.TrimSuffix(url, "/"), client: client}
}

func (a *remoteAgent) Play(ctx context.Context, r Request) (game.Action, metrics.SearchMetric, error) {
	start := time.Now()
	metric := func() metrics.SearchMetric {
		return metrics.SearchMetric{Strategy: "remote", Duration: time.Since(start)}
	}

	body, err := json.Marshal(r)
	if err != nil {
		return game.Action{}, metric(), errors.Wrap(err, "failed to encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/play", bytes.NewReader(body))
	if err != nil {
		return game.Action{}, metric(), errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return game.Action{}, metric(), errors.Wrapf(err, "failed to reach agent at %s", a.url)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return game.Action{}, metric(), ErrNoAction
	case http.StatusBadRequest:
		out, _ := io.ReadAll(resp.Body)
		return game.Action{}, metric(), errors.Wrap(ErrInvalidRequest, strings.TrimSpace(string(out)))
	default:
		out, _ := io.ReadAll(resp.Body)
		return game.Action{}, metric(), errors.Errorf("agent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(out)))
	}

	var action game.Action
	if err := json.NewDecoder(resp.Body).Decode(&action); err != nil {
		return game.Action{}, metric(), errors.Wrap(err, "failed to decode action")
	}
	return action, metric(), nil
}
