package main

import (
	"context"
	"fmt"
	"time"

	"github.com/stemsi/school-records/internal/config"
	"github.com/stemsi/school-records/internal/database"
	"github.com/stemsi/school-records/internal/logger"
	"github.com/stemsi/school-records/internal/model"
	"github.com/stemsi/school-records/internal/repository"
	"github.com/stemsi/school-records/internal/service"
)

var catalog = []model.Course{
	{ID: "CS101", Title: "Introduction to Programming", Description: "Variables, control flow and functions."},
	{ID: "CS102", Title: "Data Structures", Description: "Lists, trees, hash tables and their costs."},
	{ID: "CS201", Title: "Databases", Description: "Relational modelling and SQL."},
	{ID: "CS202", Title: "Computer Networks", Description: "From sockets to HTTP."},
	{ID: "MA101", Title: "Calculus I", Description: "Limits, derivatives and integrals."},
	{ID: "MA102", Title: "Linear Algebra", Description: "Vectors, matrices and linear maps."},
	{ID: "MA201", Title: "Discrete Mathematics", Description: "Logic, sets, combinatorics and graphs."},
	{ID: "PH101", Title: "Physics I", Description: "Mechanics and thermodynamics."},
	{ID: "EN101", Title: "Academic Writing", Description: "Structure and style of technical writing."},
	{ID: "HI101", Title: "History of Science", Description: "Ideas that shaped modern science."},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseService := service.NewCourseService(repository.NewPostgres(pool), log)

	fmt.Printf("=== Seeding %d Courses ===\n", len(catalog))

	added, skipped := 0, 0
	for i := range catalog {
		course := catalog[i]
		err := courseService.Add(ctx, &course)
		switch {
		case err == nil:
			added++
		case service.KindOf(err) == service.KindConflict:
			skipped++
		default:
			fmt.Printf("Error creating course %s: %v\n", course.ID, err)
		}
	}

	fmt.Printf("\nSeed completed! Added %d, already present %d, of %d courses.\n", added, skipped, len(catalog))
}
