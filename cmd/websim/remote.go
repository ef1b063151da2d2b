package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/josephrcox/web-pioneer/internal/config"
	"github.com/josephrcox/web-pioneer/internal/engine"
	"github.com/josephrcox/web-pioneer/internal/persistence"
)

var apiClient = &http.Client{Timeout: 10 * time.Second}

// sendCommand posts cmd to the admin API of the process holding lease.
func sendCommand(cfg *config.Config, lease persistence.Lease, cmd engine.Command) error {
	busy := &busyError{lease: lease}
	if lease.Port == 0 {
		return busy
	}
	if cfg.API.AdminKey == "" {
		return fmt.Errorf("%w; set WEBSIM_ADMIN_KEY to send actions to it", busy)
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/action", lease.Port)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.API.AdminKey)

	resp, err := apiClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Printf("%s: done (running simulation)\n", cmd)
		return nil
	case http.StatusConflict:
		return fmt.Errorf("%s: refused", cmd)
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("send %s: %s: %s", cmd, resp.Status, strings.TrimSpace(string(msg)))
}
