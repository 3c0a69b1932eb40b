// client.go contains the page fetcher every resolver goes through, it knows how to
// talk to the site but nothing about what the pages mean.

package plateanet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/cookiejar"
	"net/url"
	"time"

	"plateanet-crawler/internal/components/assert"
	"plateanet-crawler/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://www.plateanet.com"

const (
	endpoint_catalog      = "/"
	endpoint_production   = "/Obras/"
	endpoint_performances = "/Services/getFuncionesPorTeatroyObra"
	endpoint_promotions   = "/Services/getSectoresYDescuentos"
)

const (
	report_client_get_page     = "client.get-page"
	report_client_post_service = "client.post-service"
)

type ClientOptions struct {
	BaseUrl string
	// Token authorizes the service endpoints, it is a pre-shared value.
	Token     string
	UserAgent string
	Timeout   time.Duration
	// CloudflareBypass swaps the transport for one that mimics a browser's TLS
	// fingerprint and headers.
	CloudflareBypass bool
	// Dump receives every request/response pair when set.
	Dump telemetry.MessageOutput
}

// Client is safe for concurrent use, every resolver shares the same
// underlying connection pool.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	token string
	tel   telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.Token)

	tel = telemetry.NewScopedAPI("plateanet_scraper", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	c := &Client{
		BaseUrl: parsedBaseUrl,
		Http:    httpClient,
		token:   opts.Token,
		tel:     tel,
	}
	return c, nil
}

// Close releases the idle connections held by the pool, requests that are
// still in flight are not interrupted (cancel their context for that).
func (c *Client) Close() {
	c.Http.GetClient().CloseIdleConnections()
}

func (c *Client) getPage(ctx context.Context, step string, endpoint string) (*goquery.Document, error) {
	c.tel.ReportDebug(report_client_get_page, endpoint)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, &FetchError{Method: "GET", Url: endpoint, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &FetchError{
			Method:     "GET",
			Url:        endpoint,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
	}

	doc, err := parseDocument(step, bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_get_page, err, endpoint)
		return nil, err
	}
	return doc, nil
}

func parseDocument(step string, body io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &ParseError{Step: step, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}

type serviceResponse[T any] struct {
	Objeto T `json:"objeto"`
}

// postService sends `form` along with the token and decodes the "objeto"
// member of the response into `output`.
func postService[T any](
	ctx context.Context,
	c *Client,
	step string,
	endpoint string,
	form map[string]string,
	output *T,
) error {
	c.tel.ReportDebug(report_client_post_service, endpoint, form)

	formData := map[string]string{"token": c.token}
	for k, v := range form {
		formData[k] = v
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(formData).
		Post(endpoint)
	if err != nil {
		return &FetchError{Method: "POST", Url: endpoint, Err: err}
	}
	if !res.IsSuccess() {
		return &FetchError{
			Method:     "POST",
			Url:        endpoint,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
	}

	parsed := serviceResponse[T]{}
	err = json.Unmarshal(res.Body(), &parsed)
	if err != nil {
		return &ParseError{Step: step, Err: fmt.Errorf("unmarshal json: %w", err)}
	}
	*output = parsed.Objeto

	return nil
}
