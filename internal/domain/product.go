package domain

import (
	"errors"
	"time"
)

// ProductStatus is the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// ProductCriteria tells whether a product is sold per person or per group
type ProductCriteria string

const (
	ProductCriteriaIndividual ProductCriteria = "perorangan"
	ProductCriteriaGroup      ProductCriteria = "rombongan"
)

// LifecycleState is the soft-delete state of a product row
type LifecycleState string

const (
	StateActive  LifecycleState = "active"
	StateTrashed LifecycleState = "trashed"
)

// Visibility selects which lifecycle states a lookup considers
type Visibility int

const (
	VisibilityActive Visibility = iota
	VisibilityTrashed
	VisibilityAll
)

// Includes reports whether rows in the given state are visible
func (v Visibility) Includes(state LifecycleState) bool {
	switch v {
	case VisibilityTrashed:
		return state == StateTrashed
	case VisibilityAll:
		return true
	default:
		return state == StateActive
	}
}

// ParseVisibility maps the "trashed" query value onto a Visibility.
// Unknown values fall back to active-only.
func ParseVisibility(trashed string) Visibility {
	switch trashed {
	case "only":
		return VisibilityTrashed
	case "with":
		return VisibilityAll
	default:
		return VisibilityActive
	}
}

// Transition is a lifecycle operation on a product
type Transition string

const (
	TransitionSoftDelete Transition = "soft_delete"
	TransitionRestore    Transition = "restore"
	TransitionHardDelete Transition = "hard_delete"
)

var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// Product represents a sellable item
type Product struct {
	ID          int64           `json:"id" db:"id"`
	CategoryID  int64           `json:"category_id" db:"category_id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       int64           `json:"price" db:"price"`
	Stock       int64           `json:"stock" db:"stock"`
	Image       *string         `json:"image" db:"image"`
	Status      ProductStatus   `json:"status" db:"status"`
	Criteria    ProductCriteria `json:"criteria" db:"criteria"`
	Favorite    bool            `json:"favorite" db:"favorite"`
	State       LifecycleState  `json:"state" db:"state"`
	DeletedAt   *time.Time      `json:"deleted_at" db:"deleted_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	Category *Category `json:"category,omitempty"`
}

// SourceState returns the only state a transition may start from
func (t Transition) SourceState() LifecycleState {
	if t == TransitionSoftDelete {
		return StateActive
	}
	return StateTrashed
}

// Apply moves the product through a lifecycle transition.
// A hard delete leaves the value untouched; the row is gone after it.
func (p *Product) Apply(t Transition, now time.Time) error {
	if p.State != t.SourceState() {
		return ErrInvalidTransition
	}

	switch t {
	case TransitionSoftDelete:
		p.State = StateTrashed
		p.DeletedAt = &now
	case TransitionRestore:
		p.State = StateActive
		p.DeletedAt = nil
	}
	return nil
}

// Trashed reports whether the product is soft-deleted
func (p *Product) Trashed() bool {
	return p.State == StateTrashed
}
