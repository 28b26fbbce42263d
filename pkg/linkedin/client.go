package linkedin

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/fetch"
	"github.com/sirupsen/logrus"
)

const (
	// APIHost is the RapidAPI host of the profile scraper.
	APIHost = "li-data-scraper.p.rapidapi.com"
	// APIEndpoint returns profile data for a public profile URL.
	APIEndpoint = "https://" + APIHost + "/get-profile-data-by-url"

	sourceName = "linkedin"
)

// Client fetches a LinkedIn profile through the RapidAPI scraper.
type Client struct {
	apiKey     string
	host       string
	endpoint   string
	profileURL string
	cache      fetch.CacheOptions
	httpClient *http.Client
}

// Options configures a Client. Empty Host and Endpoint select the RapidAPI defaults.
type Options struct {
	APIKey     string
	Host       string
	Endpoint   string
	ProfileURL string
	Timeout    time.Duration
	Cache      fetch.CacheOptions
}

// NewClient creates a LinkedIn client.
func NewClient(opts Options) (client *Client) {
	host := opts.Host
	if host == "" {
		host = APIHost
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = APIEndpoint
	}
	client = &Client{
		apiKey:     opts.APIKey,
		host:       host,
		endpoint:   endpoint,
		profileURL: opts.ProfileURL,
		cache:      opts.Cache,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
	return client
}

// FetchProfile retrieves the configured profile (or its cached snapshot) and validates it.
func (c *Client) FetchProfile(ctx context.Context) (profile Profile, err error) {
	log := c.getLogger()
	log.Info("fetching profile")

	var raw []byte
	raw, err = fetch.Cached(ctx, c.cache, c.get)
	if err != nil {
		err = errors.Wrap(err, "failed to fetch LinkedIn data")
		return profile, err
	}

	profile, err = ParseProfile(raw)
	if err != nil {
		err = errors.Wrap(err, "failed to parse LinkedIn data")
		return profile, err
	}

	log.WithFields(logrus.Fields{
		"positions": len(profile.Positions),
		"projects":  profile.Projects != nil,
	}).Info("profile fetched")
	return profile, err
}

func (c *Client) get(ctx context.Context) (body []byte, err error) {
	var reqURL *url.URL
	reqURL, err = url.Parse(c.endpoint)
	if err != nil {
		err = errors.Wrapf(err, "invalid LinkedIn endpoint: %s", c.endpoint)
		return body, err
	}

	params := reqURL.Query()
	params.Set("url", c.profileURL)
	reqURL.RawQuery = params.Encode()

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return body, err
	}

	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	body, err = fetch.Do(c.httpClient, req, sourceName)
	return body, err
}

func (c *Client) getLogger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"source":  sourceName,
		"profile": c.profileURL,
	})
}
