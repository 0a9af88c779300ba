// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package testhelper

import (
	"net/http"
	"os"
	"testing"
)

const (
	// TestOnlineAPIURL is a reachable endpoint used by timeout and cancellation tests
	TestOnlineAPIURL = "https://bev-reverse-geocoder.thomaskonrad.at/reverse-geocode/json"

	onlineTestEnv = "PERFORM_ONLINE_API_TESTS"
)

// MockRoundTripper is a http.RoundTripper that calls Fn for every request
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless online API tests are enabled
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if val := os.Getenv(onlineTestEnv); val != "true" {
		t.Skipf("skipping online API test, set %s=true to enable", onlineTestEnv)
	}
}
