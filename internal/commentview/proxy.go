package commentview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
	"github.com/lueurxax/dc-comment-filter/internal/platform/config"
)

// RevealValue is the query parameter value that renders spam comments shown.
const RevealValue = "show"

// HTTP header constants.
const (
	headerContentType     = "Content-Type"
	headerContentLength   = "Content-Length"
	headerContentEncoding = "Content-Encoding"
	headerAcceptEncoding  = "Accept-Encoding"
	headerETag            = "Etag"
	contentTypeHTMLUTF8   = "text/html; charset=utf-8"
)

type inboundURLKey struct{}

// Proxy forwards requests to the board application and filters comment
// spam out of the HTML pages it returns.
type Proxy struct {
	cfg      config.ProxyConfig
	upstream *url.URL
	filter   *Filter
	reverse  *httputil.ReverseProxy
	client   *http.Client
	logger   *zerolog.Logger
}

// NewProxy creates a filtering reverse proxy for cfg.UpstreamURL.
func NewProxy(cfg config.ProxyConfig, filter *Filter, logger *zerolog.Logger) (*Proxy, error) {
	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil || upstream.Host == "" {
		return nil, fmt.Errorf("%w: upstream url %q", errors.ErrInvalidInput, cfg.UpstreamURL)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.UpstreamTimeout

	p := &Proxy{
		cfg:      cfg,
		upstream: upstream,
		filter:   filter,
		client:   &http.Client{Transport: transport, Timeout: cfg.UpstreamTimeout},
		logger:   logger,
	}

	rp := httputil.NewSingleHostReverseProxy(upstream)
	director := rp.Director
	rp.Director = func(r *http.Request) {
		director(r)
		r.Host = upstream.Host
		// Let the transport negotiate compression so bodies arrive decoded.
		r.Header.Del(headerAcceptEncoding)
	}
	rp.Transport = transport
	rp.ModifyResponse = p.modifyResponse
	rp.ErrorHandler = p.handleError
	p.reverse = rp

	return p, nil
}

// ServeHTTP proxies one request.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	inbound := *r.URL
	p.reverse.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), inboundURLKey{}, &inbound)))
}

// Ping checks that the upstream answers HTTP at all. Any status counts as reachable.
func (p *Proxy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.upstream.String(), nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrUpstreamUnavailable, err)
	}

	_ = resp.Body.Close()

	return nil
}

func (p *Proxy) modifyResponse(resp *http.Response) error {
	ProxyRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if !p.shouldFilter(resp) {
		return nil
	}

	raw, err := readLimited(resp.Body, p.cfg.MaxBodyBytes)
	if err != nil {
		if errors.Is(err, errors.ErrBodyTooLarge) {
			resp.Body = &replayBody{Reader: io.MultiReader(bytes.NewReader(raw), resp.Body), Closer: resp.Body}
			PagesTotal.WithLabelValues(OutcomeSkipped).Inc()
			p.logger.Debug().Str(logFieldPath, resp.Request.URL.Path).Msg("Page too large to filter, passing through")

			return nil
		}

		return err
	}

	_ = resp.Body.Close()

	out, changed := p.rewrite(resp, raw)
	if changed {
		resp.Header.Set(headerContentType, contentTypeHTMLUTF8)
		resp.Header.Del(headerETag)
	}

	setBody(resp, out)

	return nil
}

func (p *Proxy) rewrite(resp *http.Response, raw []byte) ([]byte, bool) {
	path := resp.Request.URL.Path

	decoded, err := DecodeHTML(raw, resp.Header.Get(headerContentType))
	if err != nil {
		ErrorsTotal.WithLabelValues(ErrorTypeParse).Inc()
		p.logger.Warn().Err(err).Str(logFieldPath, path).Msg("Failed to decode page")

		return raw, false
	}

	out, outcome, err := p.filter.Rewrite(decoded, p.viewFor(resp.Request))
	if err != nil {
		p.logger.Warn().Err(err).Str(logFieldPath, path).Msg("Failed to filter page")

		return raw, false
	}

	if !outcome.Applied {
		return raw, false
	}

	return out, true
}

func (p *Proxy) shouldFilter(resp *http.Response) bool {
	if resp.Request == nil || resp.Request.Method != http.MethodGet || resp.StatusCode != http.StatusOK {
		return false
	}

	if enc := resp.Header.Get(headerContentEncoding); enc != "" && !strings.EqualFold(enc, "identity") {
		return false
	}

	if !isHTML(resp.Header.Get(headerContentType)) {
		return false
	}

	return p.matchesPath(inboundURL(resp.Request).Path)
}

func (p *Proxy) matchesPath(path string) bool {
	for _, prefix := range p.cfg.PathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// viewFor builds the toggle links from the URL the client asked for.
func (p *Proxy) viewFor(r *http.Request) View {
	u := inboundURL(r)
	param := p.cfg.RevealParam

	return View{
		Reveal: u.Query().Get(param) == RevealValue,
		Links: &ControlLinks{
			Show: withQueryParam(u, param, RevealValue),
			Hide: withQueryParam(u, param, ""),
		},
	}
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ProxyRequestsTotal.WithLabelValues(StatusBadGateway).Inc()
	ErrorsTotal.WithLabelValues(ErrorTypeUpstream).Inc()

	if !errors.Is(err, context.Canceled) {
		p.logger.Error().Err(err).Str(logFieldPath, r.URL.Path).Msg("Upstream request failed")
	}

	http.Error(w, "Bad Gateway", http.StatusBadGateway)
}

func inboundURL(r *http.Request) *url.URL {
	if u, ok := r.Context().Value(inboundURLKey{}).(*url.URL); ok {
		return u
	}

	return r.URL
}

// withQueryParam returns the request URI of u with key set to value, or removed when value is empty.
func withQueryParam(u *url.URL, key, value string) string {
	next := *u
	q := next.Query()

	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}

	next.RawQuery = q.Encode()
	next.Fragment = ""

	return next.RequestURI()
}

func setBody(resp *http.Response, body []byte) {
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set(headerContentLength, strconv.Itoa(len(body)))
}

type replayBody struct {
	io.Reader
	io.Closer
}
