package adzuna

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL         = "https://api.adzuna.com/v1/api"
	defaultCountry = "us"
	userAgent      = "spigell/job-ranker (spigelly@gmail.com)"
	// Max value for search results per page.
	perPage = 50
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	appID      string
	appKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, appID, appKey string) *Client {
	return &Client{
		ctx:    ctx,
		appID:  appID,
		appKey: appKey,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func (c *Client) Search(params *SearchParams) (*Postings, error) {
	return c.search(params)
}
