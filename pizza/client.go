package pizza

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"pizza_vouchers/utils"
	"pizza_vouchers/vouchers"

	"github.com/ansel1/merry"
	"github.com/rs/zerolog/log"
)

// UserAgent is the signature of the reference mobile client. The API may
// reject requests that carry anything else.
const UserAgent = "Dalvik/2.1.0 (Linux; Android 5.0.2; samsung; SM-T800) de.pizza/3.0.19 xCore/3983"

const DefaultAPIURL = "https://pizza.de/api/2/"

// Session holds the cookies a successful authentication returned. They are
// attached verbatim to every following call; list/redeem never modify them.
type Session struct {
	cookies []*http.Cookie
}

type Client struct {
	apiURL string
	httpc  *http.Client
}

func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	return &Client{apiURL: apiURL, httpc: http.DefaultClient}
}

func (c *Client) do(method, path string, form url.Values, session *Session) (*http.Response, []byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.apiURL+path, body)
	if err != nil {
		return nil, nil, merry.Wrap(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if session != nil {
		for _, cookie := range session.cookies {
			req.AddCookie(cookie)
		}
	}

	resp, buf, err := utils.GetHTTPBody(c.httpc, req)
	if err != nil {
		return nil, nil, ErrTransport.Here().Append(err.Error())
	}

	log.Debug().
		Int("code", resp.StatusCode).Str("status", resp.Status).
		Str("path", path).Str("data", string(buf)).
		Msg("pizza.de: response")

	if resp.Status != "200 OK" {
		return nil, nil, ErrTransport.Here().Append(resp.Status).Append(string(buf))
	}
	return resp, buf, nil
}

func apiErrorDetail(apiErr *APIError) string {
	if apiErr == nil {
		return "an error during pizza operation occurred"
	}
	return apiErr.String()
}

func (c *Client) Authenticate(username, password string) (*Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("hash", PasswordHash(password))

	resp, buf, err := c.do("POST", "user/auth", form, nil)
	if err != nil {
		return nil, err
	}

	var response authResponse
	if err := json.Unmarshal(buf, &response); err != nil {
		return nil, ErrTransport.Here().Append(string(buf))
	}
	if !response.Success {
		return nil, ErrAuthFailed.Here().Append(apiErrorDetail(response.Error))
	}
	return &Session{cookies: resp.Cookies()}, nil
}

func (c *Client) ListVouchers(session *Session) ([]vouchers.RawVoucher, error) {
	_, buf, err := c.do("GET", "voucher/list", nil, session)
	if err != nil {
		return nil, err
	}

	var response listResponse
	if err := json.Unmarshal(buf, &response); err != nil {
		return nil, ErrVoucherListFailed.Here().Append(string(buf))
	}
	if !response.Success {
		return nil, ErrVoucherListFailed.Here().Append(apiErrorDetail(response.Error))
	}
	return response.Vouchers, nil
}

func (c *Client) RedeemVoucher(session *Session, code string) (string, []vouchers.RawVoucher, error) {
	form := url.Values{}
	form.Set("voucher", code)

	_, buf, err := c.do("POST", "voucher/add", form, session)
	if err != nil {
		return "", nil, err
	}

	var response addResponse
	if err := json.Unmarshal(buf, &response); err != nil {
		return "", nil, ErrVoucherRedeemFailed.Here().Append(string(buf))
	}
	if !response.Success {
		return "", nil, ErrVoucherRedeemFailed.Here().Append(apiErrorDetail(response.Error))
	}
	return response.Voucher, response.Vouchers, nil
}
