package eveapi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "newedenfaces/contexts/arena/faceoff-service/domain/errors"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

const DefaultBaseURL = "https://api.eveonline.com"

// Client talks to the EVE Online XML API, the external character directory:
// CharacterId.xml.aspx resolves a name to an identifier and
// CharacterInfo.xml.aspx returns the character sheet.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type characterIDResponse struct {
	Result struct {
		Rowset struct {
			Rows []struct {
				Name        string `xml:"name,attr"`
				CharacterID string `xml:"characterID,attr"`
			} `xml:"row"`
		} `xml:"rowset"`
	} `xml:"result"`
}

type characterInfoResponse struct {
	Result struct {
		CharacterName string `xml:"characterName"`
		Race          string `xml:"race"`
		Bloodline     string `xml:"bloodline"`
	} `xml:"result"`
}

// ResolveCharacterID looks up the directory identifier for a character name.
// The directory answers unknown names with identifier "0", which maps to
// ErrDirectoryNoMatch; malformed payloads map to ErrDirectoryUnparsable.
func (c *Client) ResolveCharacterID(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/eve/CharacterId.xml.aspx?names=%s", c.baseURL, url.QueryEscape(name))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}

	var parsed characterIDResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		c.logger.Warn("character id response unparsable",
			"event", "eveapi_resolve_unparsable",
			"module", "arena/faceoff-service",
			"layer", "adapter",
			"name", name,
			"error", err.Error(),
		)
		return "", domainerrors.ErrDirectoryUnparsable
	}
	rows := parsed.Result.Rowset.Rows
	if len(rows) == 0 {
		return "", domainerrors.ErrDirectoryUnparsable
	}
	characterID := strings.TrimSpace(rows[0].CharacterID)
	if characterID == "" || characterID == "0" {
		return "", domainerrors.ErrDirectoryNoMatch
	}
	return characterID, nil
}

// FetchCharacterSheet retrieves name, race and bloodline for a resolved
// identifier. An incomplete sheet means the directory has no such citizen.
func (c *Client) FetchCharacterSheet(ctx context.Context, characterID string) (ports.CharacterSheet, error) {
	endpoint := fmt.Sprintf("%s/eve/CharacterInfo.xml.aspx?characterID=%s", c.baseURL, url.QueryEscape(characterID))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return ports.CharacterSheet{}, err
	}

	var parsed characterInfoResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return ports.CharacterSheet{}, domainerrors.ErrDirectoryNoMatch
	}
	sheet := ports.CharacterSheet{
		Name:      strings.TrimSpace(parsed.Result.CharacterName),
		Race:      strings.TrimSpace(parsed.Result.Race),
		Bloodline: strings.TrimSpace(parsed.Result.Bloodline),
	}
	if sheet.Name == "" || sheet.Race == "" || sheet.Bloodline == "" {
		return ports.CharacterSheet{}, domainerrors.ErrDirectoryNoMatch
	}
	return sheet, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("directory request failed",
			"event", "eveapi_request_failed",
			"module", "arena/faceoff-service",
			"layer", "adapter",
			"url", endpoint,
			"error", err.Error(),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

var _ ports.DirectoryClient = (*Client)(nil)
