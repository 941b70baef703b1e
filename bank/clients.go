/*
clients.go - Client lifecycle service

Create enforces password presence and the uniqueness of both the login
client id and the identification document. Updates re-hash the password
only when one is supplied, and re-validate its length every time. Delete
is logical: the active flag flips, the row stays.
*/
package bank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClientService owns client CRUD.
type ClientService struct {
	store ClientStore
	now   func() time.Time
}

func NewClientService(store ClientStore) *ClientService {
	return &ClientService{store: store, now: time.Now}
}

// CreateClientInput carries the fields for a new client.
type CreateClientInput struct {
	Person   Person
	ClientID string
	Password string
	Active   *bool
}

// UpdateClientInput is a full replace; an empty Password keeps the stored hash.
type UpdateClientInput struct {
	Person   Person
	ClientID string
	Password string
	Active   bool
}

// PatchClientInput carries only the fields to change; nil means keep.
type PatchClientInput struct {
	Name           *string
	Gender         *string
	Age            *int
	Identification *string
	Address        *string
	Phone          *string
	ClientID       *string
	Password       *string
	Active         *bool
}

// Create registers a new client. The password is mandatory here.
func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (*Client, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, ErrInvalidPassword
	}

	if existing, err := s.store.FindClientByClientID(ctx, in.ClientID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: client id %s", ErrDuplicateClient, in.ClientID)
	}

	if existing, err := s.store.FindClientByIdentification(ctx, in.Person.Identification); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: identification %s", ErrDuplicateClient, in.Person.Identification)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	client := &Client{
		ID:           uuid.NewString(),
		Person:       in.Person,
		ClientID:     in.ClientID,
		PasswordHash: hash,
		Active:       active,
		CreatedAt:    s.now(),
	}
	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Update fully replaces a client's fields.
func (s *ClientService) Update(ctx context.Context, id string, in UpdateClientInput) (*Client, error) {
	client, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Person = in.Person
	client.ClientID = in.ClientID
	client.Active = in.Active

	if strings.TrimSpace(in.Password) != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}

	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Patch changes only the supplied fields.
func (s *ClientService) Patch(ctx context.Context, id string, in PatchClientInput) (*Client, error) {
	client, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		client.Person.Name = *in.Name
	}
	if in.Gender != nil {
		client.Person.Gender = *in.Gender
	}
	if in.Age != nil {
		client.Person.Age = *in.Age
	}
	if in.Identification != nil {
		client.Person.Identification = *in.Identification
	}
	if in.Address != nil {
		client.Person.Address = *in.Address
	}
	if in.Phone != nil {
		client.Person.Phone = *in.Phone
	}
	if in.ClientID != nil {
		client.ClientID = *in.ClientID
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		client.PasswordHash = hash
	}
	if in.Active != nil {
		client.Active = *in.Active
	}

	if err := s.store.SaveClient(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Deactivate flips the active flag; the client and its history remain.
func (s *ClientService) Deactivate(ctx context.Context, id string) error {
	client, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	client.Active = false
	return s.store.SaveClient(ctx, client)
}

// Get returns a client by id.
func (s *ClientService) Get(ctx context.Context, id string) (*Client, error) {
	return s.get(ctx, id)
}

// List returns all clients.
func (s *ClientService) List(ctx context.Context) ([]Client, error) {
	return s.store.ListClients(ctx)
}

func (s *ClientService) get(ctx context.Context, id string) (*Client, error) {
	client, err := s.store.FindClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return client, nil
}
