package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hockey-pool-go/config"
	"hockey-pool-go/logging"
	"hockey-pool-go/models"
)

// SportsDataService fetches tournament fixtures from TheSportsDB
type SportsDataService struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	leagueID string
	season   string
	logger   *logging.Logger
}

// NewSportsDataService creates a new feed client
func NewSportsDataService(cfg config.FeedConfig) *SportsDataService {
	return &SportsDataService{
		client:   &http.Client{Timeout: cfg.Timeout},
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		leagueID: cfg.LeagueID,
		season:   cfg.Season,
		logger:   logging.WithPrefix("SportsData"),
	}
}

// Feed response structures

type feedResponse struct {
	Events []FeedEvent `json:"events"`
}

// FeedEvent is one fixture as reported by the feed. Scores arrive as
// strings and may be empty or unparseable.
type FeedEvent struct {
	ID        string `json:"idEvent"`
	Status    string `json:"strStatus"`
	Postponed string `json:"strPostponed"`
	HomeScore string `json:"intHomeScore"`
	AwayScore string `json:"intAwayScore"`
}

// IsFinished reports whether the feed considers the fixture complete
func (e *FeedEvent) IsFinished() bool {
	return e.Status == "Match Finished" || e.Status == "FT"
}

// EndingType classifies how the fixture ended from the feed's status flags.
// Defaults to regular time.
func (e *FeedEvent) EndingType() models.EndingType {
	if e.Postponed == "yes" && strings.Contains(e.Status, "AET") {
		return models.EndingOvertime
	}
	if e.Postponed == "yes" && strings.Contains(e.Status, "AP") {
		return models.EndingShootout
	}
	return models.EndingRegular
}

// ParseScores converts the feed's string scores to integers. Missing or
// malformed values return an error so the caller can skip the fixture.
func (e *FeedEvent) ParseScores() (home, away int, err error) {
	home, err = strconv.Atoi(e.HomeScore)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid home score %q: %w", e.HomeScore, err)
	}
	away, err = strconv.Atoi(e.AwayScore)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid away score %q: %w", e.AwayScore, err)
	}
	if home < 0 || away < 0 {
		return 0, 0, fmt.Errorf("negative score %s:%s", e.HomeScore, e.AwayScore)
	}
	return home, away, nil
}

// FetchSeasonEvents fetches every fixture for the configured league and season
func (s *SportsDataService) FetchSeasonEvents(ctx context.Context) ([]FeedEvent, error) {
	url := fmt.Sprintf("%s/%s/eventsseason.php?id=%s&s=%s", s.baseURL, s.apiKey, s.leagueID, s.season)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	s.logger.Debugf("Fetching season events for league %s season %s", s.leagueID, s.season)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feedResp feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feedResp); err != nil {
		return nil, fmt.Errorf("failed to decode feed response: %w", err)
	}

	s.logger.Infof("Received %d events from feed", len(feedResp.Events))
	return feedResp.Events, nil
}

// HealthCheck verifies the feed is reachable
func (s *SportsDataService) HealthCheck() bool {
	req, err := http.NewRequest(http.MethodHead, s.baseURL, nil)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := s.client.Do(req.WithContext(ctx))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
