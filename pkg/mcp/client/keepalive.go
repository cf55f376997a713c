// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package client

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartKeepalive pings the server on a fixed interval in the background,
// stopping and closing the connection after maxFailures consecutive ping
// failures. Generalizes the manager's poll-on-demand HealthCheck/IsHealthy
// into a ticking liveness probe; callers that only need point-in-time
// health checks should call Ping directly instead. Returns a stop func the
// caller should invoke to end the loop without closing the connection.
func (c *Client) StartKeepalive(ctx context.Context, interval time.Duration, maxFailures int) (stop func()) {
	loopCtx, cancel := context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		failures := 0
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				pingCtx, pingCancel := context.WithTimeout(loopCtx, interval)
				err := c.Ping(pingCtx)
				pingCancel()

				if err != nil {
					failures++
					c.logger.Warn("keepalive ping failed",
						zap.Int("consecutive_failures", failures),
						zap.Int("max_failures", maxFailures),
						zap.Error(err))
					if failures >= maxFailures {
						c.logger.Error("keepalive exceeded max consecutive failures, closing connection",
							zap.Int("max_failures", maxFailures))
						_ = c.Close()
						return
					}
					continue
				}
				failures = 0
			}
		}
	}()

	return cancel
}
