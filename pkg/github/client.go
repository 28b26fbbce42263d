package github

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/root-daemon/auto-resume/pkg/fetch"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// GraphQLEndpoint is the GitHub GraphQL API endpoint.
	GraphQLEndpoint = "https://api.github.com/graphql"

	sourceName = "github"
)

// DefaultQuery requests the viewer profile and its top 100 repositories by stars.
const DefaultQuery = `
{
  viewer {
    login
    name
    location
    websiteUrl
    email
    repositories(first: 100, orderBy: {field: STARGAZERS, direction: DESC}) {
      nodes {
        name
        url
        description
        languages(first: 10) {
          nodes {
            name
          }
        }
        stargazerCount
      }
    }
  }
}
`

// Client queries the GitHub GraphQL API.
type Client struct {
	token      string
	endpoint   string
	cache      fetch.CacheOptions
	httpClient *http.Client
}

// NewClient creates a GitHub client. An empty endpoint selects GraphQLEndpoint.
func NewClient(token, endpoint string, timeout time.Duration, cache fetch.CacheOptions) (client *Client) {
	if endpoint == "" {
		endpoint = GraphQLEndpoint
	}
	client = &Client{
		token:    token,
		endpoint: endpoint,
		cache:    cache,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	return client
}

// FetchProfile runs query (or the cached snapshot in local mode) and validates the result.
func (c *Client) FetchProfile(ctx context.Context, query string) (profile Profile, err error) {
	log := c.getLogger()
	log.Info("fetching profile")

	var raw []byte
	raw, err = fetch.Cached(ctx, c.cache, func(ctx context.Context) ([]byte, error) {
		return c.query(ctx, query)
	})
	if err != nil {
		err = errors.Wrap(err, "failed to fetch GitHub data")
		return profile, err
	}

	profile, err = ParseProfile(raw)
	if err != nil {
		err = errors.Wrap(err, "failed to parse GitHub data")
		return profile, err
	}

	log.WithField("repositories", len(profile.Repositories)).Info("profile fetched")
	return profile, err
}

// query posts a GraphQL query and returns the raw `data` member.
func (c *Client) query(ctx context.Context, query string) (data []byte, err error) {
	var reqBody []byte
	reqBody, err = sjson.SetBytes([]byte(`{}`), "query", query)
	if err != nil {
		err = errors.Wrap(err, "failed to build GraphQL request")
		return data, err
	}

	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return data, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	var body []byte
	body, err = fetch.Do(c.httpClient, req, sourceName)
	if err != nil {
		return data, err
	}

	// GraphQL reports query failures with a 200 and an errors array
	errs := gjson.GetBytes(body, "errors")
	if errs.IsArray() && len(errs.Array()) > 0 {
		err = &fetch.FetchError{Source: sourceName, StatusCode: http.StatusOK, Body: errs.Raw}
		return data, err
	}

	result := gjson.GetBytes(body, "data")
	if !result.IsObject() {
		err = &fetch.FetchError{Source: sourceName, StatusCode: http.StatusOK, Body: string(body)}
		return data, err
	}

	data = []byte(result.Raw)
	return data, err
}

func (c *Client) getLogger() *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"source":   sourceName,
		"endpoint": c.endpoint,
	})
}
