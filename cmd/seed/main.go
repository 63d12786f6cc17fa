// Package main provides a tool to seed the database with sample catalog data.
//
// This creates a set of common tags and movements so the catalog, search,
// and tag management screens have realistic content during development.
// Movements are created with placeholder video metadata unless --video
// points at a real file to copy into media storage.
//
// Usage:
//
//	DATA_PATH=~/movelog/data go run ./cmd/seed
//	DATA_PATH=~/movelog/data go run ./cmd/seed --video sample.mp4
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/movelogapp/movelog-server/internal/domain"
	"github.com/movelogapp/movelog-server/internal/id"
	"github.com/movelogapp/movelog-server/internal/media/videos"
	"github.com/movelogapp/movelog-server/internal/store"
)

var videoPath = flag.String("video", "", "Path to a sample video to copy into media storage for each movement")

type seedMovement struct {
	name     string
	altNames []string
	tags     []string
	comments string
}

var seedTags = []string{"Legs", "Upper Body", "Core", "Olympic", "Conditioning", "Mobility"}

var seedMovements = []seedMovement{
	{name: "Back Squat", altNames: []string{"BS", "Squat"}, tags: []string{"Legs"}, comments: "High bar by default. Cue knees out."},
	{name: "Front Squat", altNames: []string{"FS"}, tags: []string{"Legs", "Core"}},
	{name: "Deadlift", altNames: []string{"DL"}, tags: []string{"Legs"}, comments: "Conventional stance."},
	{name: "Strict Press", altNames: []string{"Shoulder Press", "Military Press"}, tags: []string{"Upper Body"}},
	{name: "Pull-Up", altNames: []string{"Pullup"}, tags: []string{"Upper Body"}},
	{name: "Power Clean", altNames: []string{"PC"}, tags: []string{"Olympic", "Legs"}},
	{name: "Snatch", tags: []string{"Olympic"}},
	{name: "Plank", tags: []string{"Core"}, comments: "Hold 30-60s."},
	{name: "Burpee", tags: []string{"Conditioning"}},
	{name: "Couch Stretch", tags: []string{"Mobility"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/movelog/data")
	}

	dbPath := filepath.Join(dataPath, "db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	// Attribute uploads to the first user if one exists
	uploadedBy := ""
	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) > 0 {
		uploadedBy = users[0].ID
		fmt.Printf("Attributing uploads to: %s (%s)\n", users[0].Name(), uploadedBy)
	} else {
		fmt.Println("No users found, movements will have no uploader")
	}

	var mediaStore *videos.Storage
	if *videoPath != "" {
		mediaStore, err = videos.NewStorage(filepath.Join(dataPath, "media"), 2<<30)
		if err != nil {
			log.Fatalf("Failed to open media storage: %v", err)
		}
	}

	tagsCreated := 0
	for _, name := range seedTags {
		if existing, err := s.GetTagByName(ctx, name); err == nil && existing != nil {
			continue
		}
		tag := &domain.Tag{Name: name}
		tag.ID = id.MustGenerate("tag")
		tag.InitTimestamps()
		if err := s.CreateTag(ctx, tag); err != nil {
			log.Fatalf("Failed to create tag %q: %v", name, err)
		}
		tagsCreated++
	}
	fmt.Printf("Created %d tags\n", tagsCreated)

	movementsCreated := 0
	for _, sm := range seedMovements {
		if existing, err := s.FindMovementByName(ctx, sm.name); err == nil && existing != nil {
			continue
		}

		video, err := seedVideo(mediaStore, sm.name)
		if err != nil {
			log.Fatalf("Failed to store video for %q: %v", sm.name, err)
		}

		m := &domain.Movement{
			Name:       sm.name,
			AltNames:   sm.altNames,
			Tags:       sm.tags,
			Comments:   sm.comments,
			Video:      video,
			UploadedBy: uploadedBy,
		}
		m.ID = id.MustGenerate("mov")
		m.InitTimestamps()
		if err := s.CreateMovement(ctx, m); err != nil {
			log.Fatalf("Failed to create movement %q: %v", sm.name, err)
		}
		movementsCreated++
	}
	fmt.Printf("Created %d movements\n", movementsCreated)
	fmt.Println("Done")
}

// seedVideo copies the sample file into media storage when one was given,
// otherwise returns placeholder metadata pointing at a nonexistent object.
func seedVideo(mediaStore *videos.Storage, movementName string) (domain.VideoInfo, error) {
	originalName := movementName + ".mp4"

	if mediaStore == nil {
		return domain.VideoInfo{
			Object:       id.MustGenerate("seed") + ".mp4",
			OriginalName: originalName,
			Size:         0,
			ContentType:  "video/mp4",
		}, nil
	}

	f, err := os.Open(*videoPath)
	if err != nil {
		return domain.VideoInfo{}, err
	}
	defer f.Close()

	object, size, err := mediaStore.Save(f, filepath.Base(*videoPath))
	if err != nil {
		return domain.VideoInfo{}, err
	}
	return domain.VideoInfo{
		Object:       object,
		OriginalName: originalName,
		Size:         size,
		ContentType:  "video/mp4",
	}, nil
}
