package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"date-night-planner/internal/models"
	"date-night-planner/internal/services"
)

// ResponseBody is the JSON envelope for every API response
type ResponseBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RecordSearchRequest is the request body for recording a search
type RecordSearchRequest struct {
	Location        string `json:"location"`
	Date            string `json:"date"`
	TimeOfDay       string `json:"timeOfDay"`
	DateItineraryID string `json:"dateItineraryId,omitempty"`
	DateTitle       string `json:"dateTitle,omitempty"`
}

// plannerAPI wires the core services behind the API Gateway handler
type plannerAPI struct {
	store     *services.PlannerStore
	parser    *services.ItineraryParser
	generator *services.GeneratorClient
	query     *services.QueryService
	calendar  *services.CalendarService
}

func newPlannerAPI(ctx context.Context) (*plannerAPI, error) {
	var backend services.CollectionStore
	var err error

	switch os.Getenv("STORE_BACKEND") {
	case "dynamodb":
		backend, err = services.NewDynamoDBStore(ctx)
	default:
		backend, err = services.NewS3Store(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize collection store: %w", err)
	}

	settings := models.DefaultSettings()
	if currency := os.Getenv("PLANNER_CURRENCY"); currency != "" {
		settings.Currency = currency
	}

	return &plannerAPI{
		store:     services.NewPlannerStore(backend),
		parser:    services.NewItineraryParser(),
		generator: services.NewGeneratorClient(),
		query:     services.NewQueryService(settings),
		calendar:  services.NewCalendarService(),
	}, nil
}

func (api *plannerAPI) handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, POST, DELETE, OPTIONS",
		"Access-Control-Allow-Headers": "Content-Type, Authorization",
	}

	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{StatusCode: 200, Headers: headers}, nil
	}

	path := strings.TrimSuffix(request.Path, "/")
	route := request.HTTPMethod + " " + path

	log.Printf("Handling %s", route)

	switch {
	case route == "POST /dates/generate":
		return api.handleGenerate(ctx, request, headers)
	case route == "GET /dates":
		return api.handleListDates(ctx, request, headers)
	case route == "POST /dates":
		return api.handleSaveDate(ctx, request, headers)
	case request.HTTPMethod == "GET" && strings.HasPrefix(path, "/dates/") && strings.HasSuffix(path, "/calendar"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/dates/"), "/calendar")
		return api.handleCalendarExport(ctx, id, headers)
	case request.HTTPMethod == "DELETE" && strings.HasPrefix(path, "/dates/"):
		return api.handleDeleteDate(ctx, strings.TrimPrefix(path, "/dates/"), headers)
	case route == "GET /history":
		return jsonResponse(200, headers, ResponseBody{
			Success: true,
			Message: "Search history retrieved",
			Data:    api.store.ListSearchHistory(ctx),
		}), nil
	case route == "POST /history":
		return api.handleRecordSearch(ctx, request, headers)
	case route == "DELETE /history":
		if err := api.store.ClearSearchHistory(ctx); err != nil {
			return errorResponse(500, headers, "Failed to clear search history", err), nil
		}
		return jsonResponse(200, headers, ResponseBody{Success: true, Message: "Search history cleared"}), nil
	case request.HTTPMethod == "DELETE" && strings.HasPrefix(path, "/history/"):
		id := strings.TrimPrefix(path, "/history/")
		if err := api.store.DeleteSearchHistoryItem(ctx, id); err != nil {
			return errorResponse(500, headers, "Failed to delete search history entry", err), nil
		}
		return jsonResponse(200, headers, ResponseBody{Success: true, Message: "Search history entry deleted"}), nil
	}

	return errorResponse(404, headers, "Route not found", fmt.Errorf("no handler for %s", route)), nil
}

// handleGenerate requests a plan from the generation API, parses it, and
// records the search. The itinerary is returned unsaved; persisting it is a
// separate, explicit call so a failed parse never leaves partial state.
func (api *plannerAPI) handleGenerate(ctx context.Context, request events.APIGatewayProxyRequest, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	var inputs models.DateInputs
	if err := json.Unmarshal([]byte(request.Body), &inputs); err != nil {
		return errorResponse(400, headers, "Invalid request body", err), nil
	}

	rawText, err := api.generator.GenerateDatePlan(ctx, inputs)
	if err != nil {
		return errorResponse(502, headers, "Generation request failed", err), nil
	}

	itinerary, err := api.parser.Parse(rawText)
	if err != nil {
		var parseErr *services.ParseError
		if errors.As(err, &parseErr) {
			return jsonResponse(422, headers, ResponseBody{
				Success: false,
				Message: "Failed to parse the date plan response. Please try again.",
				Error:   string(parseErr.Reason),
			}), nil
		}
		return errorResponse(500, headers, "Failed to parse generated plan", err), nil
	}

	itinerary.Inputs = &inputs

	if err := api.store.RecordSearch(ctx, inputs.Location, inputs.Date, inputs.TimeOfDay, "", ""); err != nil {
		log.Printf("Failed to record search: %v", err)
	}

	return jsonResponse(200, headers, ResponseBody{
		Success: true,
		Message: "Date plan generated",
		Data:    itinerary,
	}), nil
}

func (api *plannerAPI) handleListDates(ctx context.Context, request events.APIGatewayProxyRequest, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	filters, err := parseFilterParams(request.QueryStringParameters)
	if err != nil {
		return errorResponse(400, headers, "Invalid filter parameters", err), nil
	}

	dates := api.query.Query(api.store.ListSavedDates(ctx), filters)

	return jsonResponse(200, headers, ResponseBody{
		Success: true,
		Message: fmt.Sprintf("Found %d saved dates", len(dates)),
		Data:    dates,
	}), nil
}

func (api *plannerAPI) handleSaveDate(ctx context.Context, request events.APIGatewayProxyRequest, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	var itinerary models.DateItinerary
	if err := json.Unmarshal([]byte(request.Body), &itinerary); err != nil {
		return errorResponse(400, headers, "Invalid request body", err), nil
	}

	if len(itinerary.Activities) == 0 {
		return errorResponse(400, headers, "Itinerary must have at least one activity", fmt.Errorf("empty activities")), nil
	}

	saved, err := api.store.SaveDate(ctx, itinerary)
	if err != nil {
		return errorResponse(500, headers, "Failed to save date", err), nil
	}

	return jsonResponse(200, headers, ResponseBody{
		Success: true,
		Message: "Date saved",
		Data:    saved,
	}), nil
}

func (api *plannerAPI) handleDeleteDate(ctx context.Context, id string, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	if err := api.store.DeleteSavedDate(ctx, id); err != nil {
		return errorResponse(500, headers, "Failed to delete date", err), nil
	}

	return jsonResponse(200, headers, ResponseBody{Success: true, Message: "Date deleted"}), nil
}

func (api *plannerAPI) handleRecordSearch(ctx context.Context, request events.APIGatewayProxyRequest, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	var req RecordSearchRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(400, headers, "Invalid request body", err), nil
	}

	err := api.store.RecordSearch(ctx, req.Location, req.Date, req.TimeOfDay, req.DateItineraryID, req.DateTitle)
	if err != nil {
		return errorResponse(500, headers, "Failed to record search", err), nil
	}

	return jsonResponse(200, headers, ResponseBody{Success: true, Message: "Search recorded"}), nil
}

func (api *plannerAPI) handleCalendarExport(ctx context.Context, id string, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	itinerary, found := api.store.GetSavedDate(ctx, id)
	if !found {
		return errorResponse(404, headers, "Date not found", fmt.Errorf("no saved date with id %s", id)), nil
	}

	ical, err := api.calendar.BuildCalendar(*itinerary)
	if err != nil {
		return errorResponse(500, headers, "Failed to build calendar", err), nil
	}

	calendarHeaders := map[string]string{
		"Content-Type":                "text/calendar; charset=utf-8",
		"Content-Disposition":         fmt.Sprintf("attachment; filename=%q", "date-plan.ics"),
		"Access-Control-Allow-Origin": "*",
	}

	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    calendarHeaders,
		Body:       ical,
	}, nil
}

// parseFilterParams converts query string parameters into query filters
func parseFilterParams(params map[string]string) (services.SavedDateFilters, error) {
	filters := services.SavedDateFilters{
		Search:    params["search"],
		TimeOfDay: params["timeOfDay"],
		SortBy:    services.SortOption(params["sortBy"]),
	}

	if raw := params["minPrice"]; raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid minPrice %q: %w", raw, err)
		}
		filters.MinPrice = &value
	}

	if raw := params["maxPrice"]; raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filters, fmt.Errorf("invalid maxPrice %q: %w", raw, err)
		}
		filters.MaxPrice = &value
	}

	return filters, nil
}

func jsonResponse(statusCode int, headers map[string]string, body ResponseBody) events.APIGatewayProxyResponse {
	data, err := json.Marshal(body)
	if err != nil {
		log.Printf("Failed to marshal response body: %v", err)
		return events.APIGatewayProxyResponse{StatusCode: 500, Headers: headers, Body: `{"success":false}`}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(data),
	}
}

func errorResponse(statusCode int, headers map[string]string, message string, err error) events.APIGatewayProxyResponse {
	log.Printf("%s: %v", message, err)
	return jsonResponse(statusCode, headers, ResponseBody{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func main() {
	api, err := newPlannerAPI(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize planner API: %v", err)
	}

	lambda.Start(api.handleRequest)
}
