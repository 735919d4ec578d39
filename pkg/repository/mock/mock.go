package mock

import (
	"context"

	"github.com/garnizeh/quartermaster/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	OpRepo *mockOperatorRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		OpRepo: &mockOperatorRepo{},
	}
}

type mockOperatorRepo struct {
	Stored    *models.Operator
	CreateErr error
}

func (m *mockOperatorRepo) CreateOperator(ctx context.Context, op *models.Operator) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.Operator{ID: 1, Name: op.Name, Email: op.Email, PasswordHash: op.PasswordHash}
	return 1, nil
}

func (m *mockOperatorRepo) GetOperatorByID(ctx context.Context, id int64) (*models.Operator, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *mockOperatorRepo) GetOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	if m.Stored != nil && m.Stored.Email == email {
		return m.Stored, nil
	}
	return nil, nil
}
