package pizza

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ansel1/merry"
)

func TestAuthenticate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/auth" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != UserAgent {
			t.Errorf("User-Agent = %v, want %v", ua, UserAgent)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("username") != "tester" {
			t.Errorf("username = %v, want tester", r.PostForm.Get("username"))
		}
		if r.PostForm.Get("hash") != "Xr4ilOzQ4PCOq3aQ0qbuaQ" {
			t.Errorf("hash = %v, want Xr4ilOzQ4PCOq3aQ0qbuaQ", r.PostForm.Get("hash"))
		}
		http.SetCookie(wr, &http.Cookie{Name: "session", Value: "abc123"})
		fmt.Fprint(wr, `{"success":true,"token":"tok"}`)
	}))
	defer ts.Close()

	session, err := NewClient(ts.URL).Authenticate("tester", "secret")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if len(session.cookies) != 1 || session.cookies[0].Name != "session" || session.cookies[0].Value != "abc123" {
		t.Errorf("session cookies = %v, want single session=abc123", session.cookies)
	}
}

func TestAuthenticateFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		fmt.Fprint(wr, `{"success":false,"error":{"code":"E1","description":"bad credentials"}}`)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Authenticate("tester", "wrong")
	if !merry.Is(err, ErrAuthFailed) {
		t.Fatalf("Authenticate() error = %v, want ErrAuthFailed", err)
	}
	for _, part := range []string{"E1", "bad credentials"} {
		if !strings.Contains(err.Error(), part) {
			t.Errorf("error %q does not mention %q", err.Error(), part)
		}
	}
}

func TestAuthenticateTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "malformed body",
			handler: func(wr http.ResponseWriter, r *http.Request) {
				fmt.Fprint(wr, "<html>definitely not json</html>")
			},
		},
		{
			name: "bad status",
			handler: func(wr http.ResponseWriter, r *http.Request) {
				wr.WriteHeader(http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			_, err := NewClient(ts.URL).Authenticate("tester", "secret")
			if !merry.Is(err, ErrTransport) {
				t.Errorf("Authenticate() error = %v, want ErrTransport", err)
			}
		})
	}
}

func TestListVouchers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voucher/list" || r.Method != "GET" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if cookie, err := r.Cookie("session"); err != nil || cookie.Value != "abc123" {
			t.Errorf("session cookie not attached: %v, %v", cookie, err)
		}
		fmt.Fprint(wr, `{
			"success": true,
			"voucher": [{"code":"IGNORED"}],
			"vouchers": [
				{"code":"AAA111","desc":"Fancy Friday","original_value":2500,"remaining_value":1050,
				 "valid_from":"2024-01-01","valid_until":"2030-01-02","instance":1,"def_id":7}
			]
		}`)
	}))
	defer ts.Close()

	session := &Session{cookies: []*http.Cookie{{Name: "session", Value: "abc123"}}}
	raw, err := NewClient(ts.URL).ListVouchers(session)
	if err != nil {
		t.Fatalf("ListVouchers() error = %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("got %d vouchers, want 1", len(raw))
	}
	if raw[0].Code != "AAA111" || raw[0].RemainingValue != 1050 || raw[0].ValidUntil != "2030-01-02" {
		t.Errorf("unexpected voucher: %+v", raw[0])
	}
	if len(session.cookies) != 1 || session.cookies[0].Value != "abc123" {
		t.Errorf("list call must not alter the session, got %v", session.cookies)
	}
}

func TestListVouchersEmpty(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		fmt.Fprint(wr, `{"success":true,"voucher":[],"vouchers":[]}`)
	}))
	defer ts.Close()

	raw, err := NewClient(ts.URL).ListVouchers(&Session{})
	if err != nil {
		t.Fatalf("ListVouchers() error = %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("got %d vouchers, want 0", len(raw))
	}
}

func TestListVouchersFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		fmt.Fprint(wr, `{"success":false,"error":{"code":"E5","description":"session expired"}}`)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).ListVouchers(&Session{})
	if !merry.Is(err, ErrVoucherListFailed) {
		t.Fatalf("ListVouchers() error = %v, want ErrVoucherListFailed", err)
	}
	if !strings.Contains(err.Error(), "session expired") {
		t.Errorf("error %q does not carry the remote description", err.Error())
	}
}

func TestRedeemVoucher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voucher/add" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if r.PostForm.Get("voucher") != "ABC123" {
			t.Errorf("voucher = %v, want ABC123", r.PostForm.Get("voucher"))
		}
		fmt.Fprint(wr, `{
			"success": true,
			"voucher": "ABC123",
			"vouchers": [{"code":"ABC123","desc":"Welcome","original_value":500,"remaining_value":500,
			              "valid_from":"2024-01-01","valid_until":"2030-06-01"}]
		}`)
	}))
	defer ts.Close()

	confirmed, raw, err := NewClient(ts.URL).RedeemVoucher(&Session{}, "ABC123")
	if err != nil {
		t.Fatalf("RedeemVoucher() error = %v", err)
	}
	if confirmed != "ABC123" {
		t.Errorf("confirmed code = %v, want ABC123", confirmed)
	}
	if len(raw) != 1 || raw[0].Code != "ABC123" {
		t.Errorf("unexpected vouchers: %+v", raw)
	}
}

func TestRedeemVoucherFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(wr http.ResponseWriter, r *http.Request) {
		fmt.Fprint(wr, `{"success":false,"error":{"code":"E7","description":"voucher already redeemed"}}`)
	}))
	defer ts.Close()

	_, _, err := NewClient(ts.URL).RedeemVoucher(&Session{}, "ABC123")
	if !merry.Is(err, ErrVoucherRedeemFailed) {
		t.Fatalf("RedeemVoucher() error = %v, want ErrVoucherRedeemFailed", err)
	}
	if !strings.Contains(err.Error(), "voucher already redeemed") {
		t.Errorf("error %q does not carry the remote description", err.Error())
	}
}
