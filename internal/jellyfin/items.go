// SPDX-License-Identifier: MIT

package jellyfin

import (
	"context"
	"encoding/json"
	"net/url"
)

// Field projections requested per operation. The upstream omits optional
// attributes unless they are asked for explicitly.
const (
	browseFields = "PrimaryImageAspectRatio,MediaSourceCount,ProductionYear,Overview,Genres,CommunityRating,OfficialRating,People"
	detailFields = browseFields + ",Studios,Taglines,MediaSources"
	searchFields = "PrimaryImageAspectRatio,ProductionYear,Overview,Genres"
	recentFields = "PrimaryImageAspectRatio,ProductionYear,Overview,Genres,CommunityRating"
	seasonFields = "PrimaryImageAspectRatio,ProductionYear,Overview"
	episodeField = "PrimaryImageAspectRatio,ProductionYear,Overview,MediaSources"
)

// Catalog operations return the upstream JSON body unchanged: the gateway
// relays, it does not reshape.

// Items lists catalog items for userID, applying listing defaults before the
// client-supplied parameters are normalized.
func (c *Client) Items(ctx context.Context, userID string, q Params) (json.RawMessage, error) {
	params := Normalize(q, Params{
		"limit":        "50",
		"startIndex":   "0",
		"includeTypes": "Movie,Series",
		"recursive":    "true",
		"sortBy":       "DateCreated",
		"sortOrder":    "Descending",
		"fields":       browseFields,
	})
	return c.get(ctx, "items", "/Users/"+url.PathEscape(userID)+"/Items", params)
}

// ItemByID fetches a single item with the full detail projection.
func (c *Client) ItemByID(ctx context.Context, userID, itemID string) (json.RawMessage, error) {
	params := Normalize(nil, Params{"fields": detailFields})
	return c.get(ctx, "item_detail", "/Users/"+url.PathEscape(userID)+"/Items/"+url.PathEscape(itemID), params)
}

// Search runs a free-text search scoped to userID.
func (c *Client) Search(ctx context.Context, userID, term string, q Params) (json.RawMessage, error) {
	merged := Params{"query": term}
	for k, v := range q {
		merged[k] = v
	}
	params := Normalize(merged, Params{
		"limit":        "20",
		"includeTypes": "Movie,Series,Episode",
		"recursive":    "true",
		"fields":       searchFields,
	})
	return c.get(ctx, "search", "/Users/"+url.PathEscape(userID)+"/Items", params)
}

// Recent lists the most recently added items for userID.
func (c *Client) Recent(ctx context.Context, userID string, q Params) (json.RawMessage, error) {
	params := Normalize(q, Params{
		"limit":        "20",
		"includeTypes": "Movie,Series",
		"recursive":    "true",
		"sortBy":       "DateCreated",
		"sortOrder":    "Descending",
		"fields":       recentFields,
	})
	return c.get(ctx, "recent", "/Users/"+url.PathEscape(userID)+"/Items", params)
}

// Libraries lists the upstream's configured media libraries (virtual
// folders). Not identity-scoped upstream.
func (c *Client) Libraries(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "libraries", "/Library/VirtualFolders", nil)
}

// Genres lists genres across movies and series.
func (c *Client) Genres(ctx context.Context) (json.RawMessage, error) {
	params := Normalize(nil, Params{
		"includeTypes": "Movie,Series",
		"recursive":    "true",
	})
	return c.get(ctx, "genres", "/Genres", params)
}

// ItemsByGenre lists items carrying the given genre for userID.
func (c *Client) ItemsByGenre(ctx context.Context, userID, genreID string, q Params) (json.RawMessage, error) {
	merged := Params{"genreId": genreID}
	for k, v := range q {
		merged[k] = v
	}
	params := Normalize(merged, Params{
		"limit":        "50",
		"startIndex":   "0",
		"includeTypes": "Movie,Series",
		"recursive":    "true",
		"fields":       recentFields,
	})
	return c.get(ctx, "items_by_genre", "/Users/"+url.PathEscape(userID)+"/Items", params)
}

// Seasons lists the seasons of a series. Not identity-scoped upstream.
func (c *Client) Seasons(ctx context.Context, seriesID string) (json.RawMessage, error) {
	params := Normalize(nil, Params{"fields": seasonFields})
	return c.get(ctx, "seasons", "/Shows/"+url.PathEscape(seriesID)+"/Seasons", params)
}

// Episodes lists the episodes of a season.
func (c *Client) Episodes(ctx context.Context, seasonID string) (json.RawMessage, error) {
	params := Normalize(nil, Params{"fields": episodeField})
	return c.get(ctx, "episodes", "/Shows/"+url.PathEscape(seasonID)+"/Episodes", params)
}
