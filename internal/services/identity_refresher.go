package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"call-directory/config"
	"call-directory/pkg/logger"
)

// IdentityRefresher periodically fetches a web identity token and
// atomically replaces the token file that the storage client reads
// for its credentials. A failed cycle is logged and skipped; the last
// successfully written token stays in place until the next cycle.
type IdentityRefresher struct {
	client    *http.Client
	logger    *logger.Logger
	tokenURL  string
	tokenPath string
	interval  time.Duration
	stopChan  chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewIdentityRefresher(cfg *config.Config, tokenPath string, l *logger.Logger) *IdentityRefresher {
	return &IdentityRefresher{
		client:    &http.Client{},
		logger:    l,
		tokenURL:  cfg.IdentityTokenURL,
		tokenPath: tokenPath,
		interval:  time.Duration(cfg.IdentityFetchIntervalMs) * time.Millisecond,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the refresh loop
func (r *IdentityRefresher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.wg.Add(1)
	go r.run(ctx)
	r.logger.Infof("identity refresher started, interval %s", r.interval)
}

// Stop shuts the loop down. An in-flight fetch is canceled, not
// drained; its result is discarded.
func (r *IdentityRefresher) Stop() {
	close(r.stopChan)
	r.cancel()
	r.wg.Wait()
	r.logger.Infof("identity refresher stopped")
}

func (r *IdentityRefresher) run(ctx context.Context) {
	defer r.wg.Done()

	// A timer re-armed after each cycle guarantees a full interval
	// between fetches even when a fetch is slow. A ticker would let a
	// delayed tick fire immediately after a long cycle.
	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-timer.C:
			if err := r.FetchOnce(ctx); err != nil {
				r.logger.Errorf("failed to fetch identity token: %s", err)
			}
			timer.Reset(r.interval)
		}
	}
}

// FetchOnce performs one fetch-and-replace cycle. With no token URL
// configured the cycle is a no-op, which lets local deployments run
// without an identity provider.
func (r *IdentityRefresher) FetchOnce(ctx context.Context) error {
	if r.tokenURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.tokenURL, nil)
	if err != nil {
		return fmt.Errorf("build identity token request: %w", err)
	}
	req.Header.Set("Metadata-Flavor", "Google")

	r.logger.Debugf("fetching identity token from %s", r.tokenURL)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch identity token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch identity token: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read identity token: %w", err)
	}

	// Write to a sibling file and rename. The rename is atomic within
	// one filesystem, so a concurrent reader sees either the old or
	// the new complete token, never a partial or missing file.
	tempPath := r.tokenPath + ".bak"
	if err := os.WriteFile(tempPath, body, 0o600); err != nil {
		return fmt.Errorf("write identity token: %w", err)
	}
	if err := os.Rename(tempPath, r.tokenPath); err != nil {
		return fmt.Errorf("replace identity token: %w", err)
	}

	r.logger.Debugf("wrote identity token to %s", r.tokenPath)
	return nil
}
