package main

import (
	"sort"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
)

// Widget is the domain object the demo serves.
type Widget struct {
	ID               uuid.UUID
	Name             string
	Price            float64
	Parent           *uuid.UUID
	CreationDate     time.Time
	ModificationDate time.Time
}

// widgetStore keeps widgets in memory, listed in creation order.
type widgetStore struct {
	lock    sync.RWMutex
	widgets map[uuid.UUID]*Widget
}

func newWidgetStore() *widgetStore {
	return &widgetStore{widgets: make(map[uuid.UUID]*Widget)}
}

func (store *widgetStore) Create(input widgetFields) *Widget {
	now := time.Now().UTC()
	widget := &Widget{
		ID:               uuid.NewV4(),
		Name:             input.Name,
		Price:            input.Price,
		Parent:           input.Parent,
		CreationDate:     now,
		ModificationDate: now,
	}

	store.lock.Lock()
	defer store.lock.Unlock()
	store.widgets[widget.ID] = widget

	copied := *widget
	return &copied
}

// Get returns a copy of the widget, nil when there is none.
func (store *widgetStore) Get(id uuid.UUID) *Widget {
	store.lock.RLock()
	defer store.lock.RUnlock()

	widget, ok := store.widgets[id]
	if !ok {
		return nil
	}
	copied := *widget
	return &copied
}

func (store *widgetStore) Update(id uuid.UUID, input widgetFields) *Widget {
	store.lock.Lock()
	defer store.lock.Unlock()

	widget, ok := store.widgets[id]
	if !ok {
		return nil
	}
	widget.Name = input.Name
	widget.Price = input.Price
	widget.Parent = input.Parent
	widget.ModificationDate = time.Now().UTC()

	copied := *widget
	return &copied
}

func (store *widgetStore) Delete(id uuid.UUID) *Widget {
	store.lock.Lock()
	defer store.lock.Unlock()

	widget, ok := store.widgets[id]
	if !ok {
		return nil
	}
	delete(store.widgets, id)
	return widget
}

// List returns up to limit widgets starting at offset. A limit of zero or less lists
// every widget from offset on.
func (store *widgetStore) List(offset int, limit int) []Widget {
	store.lock.RLock()
	listed := make([]Widget, 0, len(store.widgets))
	for _, widget := range store.widgets {
		listed = append(listed, *widget)
	}
	store.lock.RUnlock()

	sort.Slice(listed, func(i, j int) bool {
		if listed[i].CreationDate.Equal(listed[j].CreationDate) {
			return listed[i].ID.String() < listed[j].ID.String()
		}
		return listed[i].CreationDate.Before(listed[j].CreationDate)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(listed) {
		return []Widget{}
	}
	listed = listed[offset:]
	if limit > 0 && limit < len(listed) {
		listed = listed[:limit]
	}
	return listed
}
