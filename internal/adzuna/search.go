package adzuna

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

const defaultMaxJobs = 50

type SearchParams struct {
	Keywords string `yaml:"keywords" adzparam:"what"`
	Location string `yaml:"location" adzparam:"where"`
	// Control fields. Not sent as query parameters.
	Country    string `yaml:"country" adzparam:"-"`
	MaxJobs    int    `yaml:"max_jobs" mapstructure:"max_jobs" adzparam:"-"`
	MaxDaysOld int    `yaml:"max_days_old" mapstructure:"max_days_old"`
	SortBy     string `yaml:"sort_by" mapstructure:"sort_by"`
}

func (c *Client) search(params *SearchParams) (*Postings, error) {
	var postings []*Posting

	country := params.Country
	if country == "" {
		country = defaultCountry
	}

	max := params.MaxJobs
	if max <= 0 {
		max = defaultMaxJobs
	}

	q := buildParams(params)
	q.Set("app_id", c.appID)
	q.Set("app_key", c.appKey)
	// Set results_per_page max as possible. It should be faster.
	q.Set("results_per_page", strconv.Itoa(perPage))

	var items []Item
	for page := 1; len(items) < max; page++ {
		pageURL := fmt.Sprintf("%s/jobs/%s/search/%d", c.APIURL, country, page)

		pageItems, _, err := c.GetPageItems(pageURL, q)
		if err != nil {
			return nil, err
		}

		if len(pageItems) == 0 {
			break
		}

		items = append(items, pageItems...)

		// A short page means there is nothing left to fetch.
		if len(pageItems) < perPage {
			break
		}
	}

	if len(items) > max {
		items = items[:max]
	}

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &postings,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decoding postings: %w", err)
	}

	return &Postings{
		Items: postings,
	}, nil
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("adzparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}
		if key == "-" || key == "" {
			continue
		}

		value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
		if value != "" && value != "0" {
			q.Set(key, value)
		}
	}

	return q
}
