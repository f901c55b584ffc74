package amadeus

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jlaurila/stayscout/internal/hotels"
)

// MaxOfferIDsPerRequest is the provider-imposed ceiling on how many hotel
// IDs one shopping/hotel-offers request may carry. The batch scheduler is
// sized from this constant so oversized requests cannot be constructed.
const MaxOfferIDsPerRequest = 15

// offersResponse matches the subset of v3 shopping/hotel-offers responses
// the workflow consumes.
type offersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID   string  `json:"hotelId"`
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"hotel"`
		Available bool `json:"available"`
		Offers    []struct {
			Room struct {
				Description struct {
					Text string `json:"text"`
				} `json:"description"`
			} `json:"room"`
			Price struct {
				Currency string `json:"currency"`
				Total    string `json:"total"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

// Compile-time check that Client implements the scheduler's fetch contract.
var _ hotels.OfferFetcher = (*Client)(nil)

// FetchOffers retrieves live offers for one identifier slice. Live pricing
// is never cached. The slice must respect MaxOfferIDsPerRequest; violating
// it is a request-construction bug, not a provider condition, so it fails
// fast before any network traffic.
func (c *Client) FetchOffers(ctx context.Context, hotelIDs []string, query hotels.Query) ([]hotels.Offer, error) {
	if len(hotelIDs) == 0 {
		return nil, nil
	}
	if len(hotelIDs) > MaxOfferIDsPerRequest {
		return nil, fmt.Errorf("offer request carries %d hotel IDs, provider ceiling is %d", len(hotelIDs), MaxOfferIDsPerRequest)
	}

	params := url.Values{}
	params.Set("hotelIds", strings.Join(hotelIDs, ","))
	params.Set("adults", strconv.Itoa(query.Adults))
	params.Set("checkInDate", query.CheckIn)
	params.Set("checkOutDate", query.CheckOut)
	params.Set("currency", "USD")
	params.Set("includeClosed", "true")
	for key, value := range categoryParams(query.Category) {
		params.Set(key, value)
	}

	var resp offersResponse
	if err := c.get(ctx, "/v3/shopping/hotel-offers", params, &resp); err != nil {
		return nil, err
	}

	offers := make([]hotels.Offer, 0, len(resp.Data))
	for _, item := range resp.Data {
		offer := hotels.Offer{
			HotelID:   item.Hotel.HotelID,
			Name:      item.Hotel.Name,
			Available: item.Available,
			Latitude:  item.Hotel.Latitude,
			Longitude: item.Hotel.Longitude,
		}
		if len(item.Offers) > 0 {
			first := item.Offers[0]
			offer.Currency = first.Price.Currency
			offer.PriceTotal = first.Price.Total
			offer.RoomDescription = first.Room.Description.Text
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// categoryParams maps a search tier to the extra offer-query parameters the
// provider expects.
func categoryParams(category hotels.Category) map[string]string {
	switch category {
	case hotels.CategoryBudget:
		return map[string]string{"roomQuantity": "1", "priceRange": "50-150"}
	case hotels.CategoryStandard:
		return map[string]string{"roomQuantity": "2", "priceRange": "150-300"}
	case hotels.CategoryLuxury:
		return map[string]string{"roomQuantity": "3", "priceRange": "300-1000"}
	default:
		return map[string]string{"bestRateOnly": "true"}
	}
}
