package handlers

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/httpx"
)

// ProxyPrefix is where the backend API is exposed to the browser.
const ProxyPrefix = "/api/backend/"

// Proxy forwards /api/backend/{path...} to the backend with the session's
// bearer token. The browser never sees the token.
type Proxy struct {
	Base
	target *url.URL
	rp     *httputil.ReverseProxy
}

func NewProxy(b Base) (*Proxy, error) {
	target, err := url.Parse(b.API.BaseURL())
	if err != nil {
		return nil, err
	}
	p := &Proxy{Base: b, target: target}
	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		Transport:      b.API.HTTPClient().Transport,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
	}
	return p, nil
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	out := pr.Out
	out.URL.Scheme = p.target.Scheme
	out.URL.Host = p.target.Host
	out.URL.Path = strings.TrimSuffix(p.target.Path, "/") + "/" + strings.TrimPrefix(pr.In.PathValue("path"), "/")
	out.URL.RawPath = ""
	out.URL.RawQuery = pr.In.URL.RawQuery
	out.Host = p.target.Host
	pr.SetXForwarded()

	// Dashboard cookies stay here.
	out.Header.Del("Cookie")
	out.Header.Set("Authorization", "Bearer "+auth.TokenFromContext(pr.In.Context()))
}

// modifyResponse ends the session when the backend rejects its token.
func (p *Proxy) modifyResponse(resp *http.Response) error {
	resp.Header.Del("Set-Cookie")
	if resp.StatusCode == http.StatusUnauthorized && resp.Request != nil {
		p.endSession(resp.Request)
	}
	return nil
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	logFor(r).Error().Err(err).Str("path", r.URL.Path).Msg("backend proxy")
	httpx.JSONError(w, http.StatusBadGateway, "backend_unavailable", nil)
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if auth.TokenFromContext(r.Context()) == "" {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	p.rp.ServeHTTP(w, r)
}

var _ http.Handler = (*Proxy)(nil)

