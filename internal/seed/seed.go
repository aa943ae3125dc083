package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shareit/internal/client"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// File is the seed document: users, each with the items they own.
type File struct {
	Users []User `yaml:"users"`
}

type User struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Items []Item `yaml:"items"`
}

type Item struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

// API is the part of the shareit client the seeder needs.
type API interface {
	ListUsers(ctx context.Context) ([]client.User, error)
	CreateUser(ctx context.Context, name, email string) (*client.User, error)
	ListItems(ctx context.Context, ownerID int64) ([]client.Item, error)
	CreateItem(ctx context.Context, ownerID int64, item client.Item) (*client.Item, error)
}

type Result struct {
	UsersCreated  int
	UsersExisting int
	ItemsCreated  int
	ItemsExisting int
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("no users in seed file")
	}
	return &f, nil
}

// Apply creates the users and items that do not exist yet. Users match by email,
// items by name within their owner, so running it twice creates nothing new.
func Apply(ctx context.Context, api API, f *File, logger *zerolog.Logger) (Result, error) {
	var res Result

	existing, err := api.ListUsers(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]int64, len(existing))
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u.ID
	}

	for _, u := range f.Users {
		if u.Email == "" {
			logger.Warn().Str("name", u.Name).Msg("Skipping user without email")
			continue
		}

		userID, ok := byEmail[strings.ToLower(u.Email)]
		if ok {
			res.UsersExisting++
		} else {
			created, err := api.CreateUser(ctx, u.Name, u.Email)
			if err != nil {
				return res, fmt.Errorf("create user %s: %w", u.Email, err)
			}
			userID = created.ID
			byEmail[strings.ToLower(u.Email)] = userID
			res.UsersCreated++
		}

		if err := applyItems(ctx, api, userID, u.Items, &res); err != nil {
			return res, err
		}
	}

	logger.Info().
		Int("users_created", res.UsersCreated).
		Int("users_existing", res.UsersExisting).
		Int("items_created", res.ItemsCreated).
		Int("items_existing", res.ItemsExisting).
		Msg("Seed applied")
	return res, nil
}

func applyItems(ctx context.Context, api API, ownerID int64, items []Item, res *Result) error {
	if len(items) == 0 {
		return nil
	}

	owned, err := api.ListItems(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("list items of %d: %w", ownerID, err)
	}
	names := make(map[string]struct{}, len(owned))
	for _, it := range owned {
		names[it.Name] = struct{}{}
	}

	for _, it := range items {
		if it.Name == "" {
			continue
		}
		if _, ok := names[it.Name]; ok {
			res.ItemsExisting++
			continue
		}

		available := true
		if it.Available != nil {
			available = *it.Available
		}
		if _, err := api.CreateItem(ctx, ownerID, client.Item{
			Name:        it.Name,
			Description: it.Description,
			Available:   available,
		}); err != nil {
			return fmt.Errorf("create item %s: %w", it.Name, err)
		}
		names[it.Name] = struct{}{}
		res.ItemsCreated++
	}
	return nil
}
