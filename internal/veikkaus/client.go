// Package veikkaus fetches EuroJackpot draw results and the upcoming jackpot from the Veikkaus API.
package veikkaus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rewired-gh/jackpotoracle/internal/models"
)

const (
	gameID      = "EJACKPOT"
	jackpotPath = "draws.EJACKPOT.0.jackpots.0.amount"
)

// Client provides access to the Veikkaus draw-results and jackpot APIs.
type Client struct {
	resultsURL string
	jackpotURL string
	httpClient *http.Client
}

// NewClient creates a new Veikkaus client.
func NewClient(resultsURL, jackpotURL string, timeout time.Duration) *Client {
	return &Client{
		resultsURL: strings.TrimRight(resultsURL, "/"),
		jackpotURL: strings.TrimRight(jackpotURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiDraw is one element of the draws/by-week response.
type apiDraw struct {
	ID         json.Number `json:"id"`
	BrandName  string      `json:"brandName"`
	CloseTime  int64       `json:"closeTime"`
	Status     string      `json:"status"`
	Results    []apiResult `json:"results"`
	PrizeTiers []apiTier   `json:"prizeTiers"`
}

type apiResult struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
}

type apiTier struct {
	Name        string `json:"name"`
	ShareAmount int64  `json:"shareAmount"`
	ShareCount  int64  `json:"shareCount"`
}

// FetchDraws retrieves every draw published for the ISO year/week. An empty
// week is not an error.
func (c *Client) FetchDraws(ctx context.Context, year, week int) ([]models.DrawRecord, error) {
	url := fmt.Sprintf("%s/api/draw-results/v1/games/%s/draws/by-week/%d-%d", c.resultsURL, gameID, year, week)

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, &FetchError{Op: "draw results", URL: url, Err: err}
	}

	var raw []apiDraw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Op: "draw results", URL: url, Err: fmt.Errorf("failed to decode draws: %w", err)}
	}

	draws := make([]models.DrawRecord, 0, len(raw))
	for _, d := range raw {
		draw, err := d.toModel()
		if err != nil {
			return nil, &FetchError{Op: "draw results", URL: url, Err: err}
		}
		draws = append(draws, draw)
	}
	return draws, nil
}

func (d apiDraw) toModel() (models.DrawRecord, error) {
	if len(d.Results) == 0 {
		return models.DrawRecord{}, fmt.Errorf("draw %s has no results", d.ID)
	}
	tiers := make([]models.PrizeTier, 0, len(d.PrizeTiers))
	for _, t := range d.PrizeTiers {
		tiers = append(tiers, models.PrizeTier{
			Name:        t.Name,
			ShareAmount: t.ShareAmount,
			ShareCount:  t.ShareCount,
		})
	}
	draw := models.DrawRecord{
		ID:               d.ID.String(),
		BrandName:        d.BrandName,
		CloseTime:        d.CloseTime,
		PrimaryNumbers:   d.Results[0].Primary,
		SecondaryNumbers: d.Results[0].Secondary,
		PrizeTiers:       tiers,
	}
	if err := draw.Validate(); err != nil {
		return models.DrawRecord{}, fmt.Errorf("invalid draw %s: %w", d.ID, err)
	}
	return draw, nil
}

// FetchNextJackpot returns the advertised jackpot of the next draw, in cents.
func (c *Client) FetchNextJackpot(ctx context.Context) (int64, error) {
	url := c.jackpotURL + "/jackpot/v1/latest-jackpot-results.json"

	body, err := c.get(ctx, url)
	if err != nil {
		return 0, &FetchError{Op: "jackpot", URL: url, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return 0, &FetchError{Op: "jackpot", URL: url, Err: fmt.Errorf("response is not valid JSON")}
	}
	amount := gjson.GetBytes(body, jackpotPath)
	if !amount.Exists() || amount.Type != gjson.Number {
		return 0, &FetchError{Op: "jackpot", URL: url, Err: fmt.Errorf("missing %s", jackpotPath)}
	}
	return amount.Int(), nil
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-ESA-API-Key", "ROBOT")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}
	return body, nil
}

// FetchError reports an unreachable or malformed results/jackpot source.
type FetchError struct {
	Op  string
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s from %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
