package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"date-night-planner/internal/models"
	"date-night-planner/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	location := flag.String("location", "", "City or area for the date")
	date := flag.String("date", "", "Date of the plan (YYYY-MM-DD)")
	timeOfDay := flag.String("time-of-day", "evening", "Time of day (morning|afternoon|evening)")
	interests := flag.String("interests", "", "Partner's interests")
	personality := flag.String("personality", "", "Partner's personality")
	budget := flag.String("budget", "$100", "Budget, including currency symbol")
	loveLanguage := flag.String("love-language", "quality-time", "Partner's love language")
	save := flag.Bool("save", false, "Save the generated plan")
	dataDir := flag.String("data-dir", defaultDataDir(), "Directory for local collections")
	flag.Parse()

	if *location == "" {
		log.Fatal("-location is required")
	}

	inputs := models.DateInputs{
		Location:     *location,
		Date:         *date,
		TimeOfDay:    *timeOfDay,
		Interests:    *interests,
		Personality:  *personality,
		Budget:       *budget,
		LoveLanguage: *loveLanguage,
	}

	backend, err := services.NewFileStore(*dataDir)
	if err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	store := services.NewPlannerStore(backend)
	parser := services.NewItineraryParser()
	query := services.NewQueryService(models.DefaultSettings())
	generator := services.NewGeneratorClient()

	ctx := context.Background()

	log.Printf("Generating date plan for %s...", inputs.Location)

	rawText, err := generator.GenerateDatePlan(ctx, inputs)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	itinerary, err := parser.Parse(rawText)
	if err != nil {
		log.Fatalf("Could not parse generated plan: %v", err)
	}
	itinerary.Inputs = &inputs

	printItinerary(itinerary, query)

	itineraryID := ""
	if *save {
		saved, err := store.SaveDate(ctx, *itinerary)
		if err != nil {
			log.Fatalf("Failed to save date plan: %v", err)
		}
		itineraryID = saved.ID
		fmt.Printf("\nSaved as %s\n", saved.ID)
	}

	title := ""
	if itineraryID != "" {
		title = itinerary.Title
	}
	if err := store.RecordSearch(ctx, inputs.Location, inputs.Date, inputs.TimeOfDay, itineraryID, title); err != nil {
		log.Printf("Failed to record search: %v", err)
	}
}

func printItinerary(itinerary *models.DateItinerary, query *services.QueryService) {
	fmt.Printf("\n%s\n", itinerary.Title)

	for i, activity := range itinerary.Activities {
		fmt.Printf("\n%d. %s (%s)\n", i+1, activity.Title, activity.Time)
		fmt.Printf("   Location: %s\n", activity.Location)
		fmt.Printf("   %s\n", activity.Description)
		fmt.Printf("   Cost: %s\n", query.FormatPrice(activity.Cost))
		if activity.BookingURL != "" {
			fmt.Printf("   Book: %s\n", activity.BookingURL)
		}
	}

	fmt.Printf("\nTotal: %s\n", query.FormatPrice(itinerary.TotalCost))
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".date-night-planner"
	}
	return filepath.Join(home, ".date-night-planner")
}
