// Package seed loads YAML fixtures of users, messages, follows and likes.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"warbler/auth"
	"warbler/models"
	"warbler/repositories"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is the document format read by Load.
type Fixture struct {
	Users    []UserFixture    `yaml:"users"`
	Messages []MessageFixture `yaml:"messages"`
	Follows  []FollowFixture  `yaml:"follows"`
	Likes    []LikeFixture    `yaml:"likes"`
}

type UserFixture struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email"`
	Password       string `yaml:"password"`
	ImageURL       string `yaml:"image_url,omitempty"`
	HeaderImageURL string `yaml:"header_image_url,omitempty"`
	Bio            string `yaml:"bio,omitempty"`
	Location       string `yaml:"location,omitempty"`
}

// MessageFixture names its author by username.
type MessageFixture struct {
	User string `yaml:"user"`
	Text string `yaml:"text"`
}

type FollowFixture struct {
	Follower string `yaml:"follower"`
	Followed string `yaml:"followed"`
}

// LikeFixture refers to a message by its index in Fixture.Messages.
type LikeFixture struct {
	User    string `yaml:"user"`
	Message int    `yaml:"message"`
}

// Result counts what Load created.
type Result struct {
	Users    int
	Messages int
	Follows  int
	Likes    int
}

// Parse decodes a fixture, rejecting unknown fields.
func Parse(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &fixture, nil
}

// LoadFile parses the fixture at path, or the bundled one when path is empty.
func LoadFile(path string) (*Fixture, error) {
	if path == "" {
		return Parse(bytes.NewReader(defaultFixture))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Seeder writes fixtures through the same stores the web app uses.
type Seeder struct {
	creds    *auth.CredentialStore
	users    repositories.UserRepository
	messages repositories.MessageRepository
	likes    repositories.LikeRepository
}

func NewSeeder(
	creds *auth.CredentialStore,
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	likes repositories.LikeRepository,
) *Seeder {
	return &Seeder{creds: creds, users: users, messages: messages, likes: likes}
}

// Load creates everything in the fixture. It stops at the first error;
// rows created before it are kept.
func (s *Seeder) Load(ctx context.Context, fixture *Fixture) (Result, error) {
	var res Result
	ids := make(map[string]uint, len(fixture.Users))

	for _, u := range fixture.Users {
		user, err := s.creds.Signup(ctx, auth.SignupParams{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			ImageURL: u.ImageURL,
		})
		if err != nil {
			return res, fmt.Errorf("user %q: %w", u.Username, err)
		}
		if u.HeaderImageURL != "" || u.Bio != "" || u.Location != "" {
			if u.HeaderImageURL != "" {
				user.HeaderImageURL = u.HeaderImageURL
			}
			user.Bio = u.Bio
			user.Location = u.Location
			if err := s.users.Update(ctx, user); err != nil {
				return res, fmt.Errorf("user %q: %w", u.Username, err)
			}
		}
		ids[u.Username] = user.ID
		res.Users++
	}

	lookup := func(username string) (uint, error) {
		if id, ok := ids[username]; ok {
			return id, nil
		}
		user, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return 0, fmt.Errorf("user %q: %w", username, err)
		}
		ids[username] = user.ID
		return user.ID, nil
	}

	messageIDs := make([]uint, len(fixture.Messages))
	for i, m := range fixture.Messages {
		userID, err := lookup(m.User)
		if err != nil {
			return res, err
		}
		message := &models.Message{Text: m.Text, UserID: userID}
		if err := s.messages.Create(ctx, message); err != nil {
			return res, fmt.Errorf("message %d: %w", i, err)
		}
		messageIDs[i] = message.ID
		res.Messages++
	}

	for _, f := range fixture.Follows {
		follower, err := lookup(f.Follower)
		if err != nil {
			return res, err
		}
		followed, err := lookup(f.Followed)
		if err != nil {
			return res, err
		}
		if err := s.users.Follow(ctx, follower, followed); err != nil {
			return res, fmt.Errorf("follow %s -> %s: %w", f.Follower, f.Followed, err)
		}
		res.Follows++
	}

	liked := map[[2]uint]bool{}
	for _, l := range fixture.Likes {
		if l.Message < 0 || l.Message >= len(messageIDs) {
			return res, fmt.Errorf("like by %q: message index %d out of range", l.User, l.Message)
		}
		userID, err := lookup(l.User)
		if err != nil {
			return res, err
		}
		key := [2]uint{userID, messageIDs[l.Message]}
		// Toggle would undo a repeated like.
		if liked[key] {
			continue
		}
		if _, _, err := s.likes.Toggle(ctx, key[0], key[1]); err != nil {
			return res, fmt.Errorf("like by %q: %w", l.User, err)
		}
		liked[key] = true
		res.Likes++
	}

	logrus.WithFields(logrus.Fields{
		"users":    res.Users,
		"messages": res.Messages,
		"follows":  res.Follows,
		"likes":    res.Likes,
	}).Info("Seeded database")
	return res, nil
}
