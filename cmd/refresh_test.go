package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/networth"
	"github.com/etnz/networth/storage"
)

// remoteStub serves the rate API on /rate and a sheet on /sheet. The rate
// answers rateStatus.
type remoteStub struct {
	*httptest.Server
	rateStatus atomic.Int32
	rateCalls  atomic.Int32
	syncCalls  atomic.Int32
}

func newRemoteStub(t *testing.T) *remoteStub {
	t.Helper()
	stub := &remoteStub{}
	stub.rateStatus.Store(http.StatusOK)
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rate":
			stub.rateCalls.Add(1)
			if code := int(stub.rateStatus.Load()); code != http.StatusOK {
				w.WriteHeader(code)
				return
			}
			io.WriteString(w, `{"result": "success", "base_code": "USD", "rates": {"USD": 1, "TWD": 31.456}}`)
		case "/sheet":
			stub.syncCalls.Add(1)
			io.WriteString(w, `{"marketData": [{"symbol": "0050", "price": 160, "beta": 1}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(stub.Close)
	return stub
}

func TestStartupRefresh(t *testing.T) {
	stub := newRemoteStub(t)
	// settings are loaded once per process, the rate URL stays the stub's.
	t.Setenv("NW_REMOTE_RATE_URL", stub.URL+"/rate")
	t.Setenv("NW_CONFIG", t.TempDir()+"/none.yaml")
	cfg, err := settings()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(cfg.Remote.RateURL, stub.URL) {
		t.Skipf("settings already loaded with rate URL %q", cfg.Remote.RateURL)
	}

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	testCases := []struct {
		name       string
		mode       networth.RateMode
		endpoint   bool
		rateStatus int
		wantUSD    float64
		wantRate   int32 // rate API calls
		wantSync   int32 // sheet calls
		wantLog    string
	}{
		{"auto", networth.Auto, false, http.StatusOK, 31.46, 1, 0, ""},
		{"manual", networth.Manual, true, http.StatusOK, 32.5, 0, 0, ""},
		{"rate failure", networth.Auto, false, http.StatusBadGateway, 32.5, 1, 0, "could not refresh the USD rate"},
		{"sync after rate", networth.Auto, true, http.StatusOK, 31.46, 1, 1, ""},
		{"sync after rate failure", networth.Auto, true, http.StatusBadGateway, 32.5, 1, 1, "could not refresh the USD rate"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stub.rateStatus.Store(int32(tc.rateStatus))
			stub.rateCalls.Store(0)
			stub.syncCalls.Store(0)
			logs.Reset()

			book, err := networth.OpenBook(storage.NewMemory())
			if err != nil {
				t.Fatal(err)
			}
			cmds := []networth.Command{networth.SetRateMode{Mode: tc.mode}}
			if tc.endpoint {
				cmds = append(cmds, networth.SetEndpoint{URL: stub.URL + "/sheet"})
			}
			if err := book.Apply(cmds...); err != nil {
				t.Fatal(err)
			}

			startupRefresh(context.Background(), book)

			s := book.State()
			if got := s.Rates["USD"]; got != tc.wantUSD {
				t.Errorf("USD rate = %v, want %v", got, tc.wantUSD)
			}
			if got := stub.rateCalls.Load(); got != tc.wantRate {
				t.Errorf("rate API called %d times, want %d", got, tc.wantRate)
			}
			if got := stub.syncCalls.Load(); got != tc.wantSync {
				t.Errorf("sheet called %d times, want %d", got, tc.wantSync)
			}
			if tc.wantSync > 0 && s.Prices["0050"] != 160 {
				t.Errorf("sync not applied, prices = %v", s.Prices)
			}
			if tc.wantLog != "" && !strings.Contains(logs.String(), tc.wantLog) {
				t.Errorf("log = %q, want it to contain %q", logs.String(), tc.wantLog)
			}
			if tc.wantLog == "" && logs.Len() > 0 {
				t.Errorf("unexpected log %q", logs.String())
			}
		})
	}
}
