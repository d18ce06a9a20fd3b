package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

// CampusController is the view-state controller for the campus table.
type CampusController struct {
	repo    domain.CampusRepository
	worker  *worker
	outcome outcome
	all     *sharedStream[domain.Campus]
	active  *sharedStream[domain.Campus]
	search  *searcher[domain.Campus]
}

func NewCampusController(repo domain.CampusRepository, opts Options) *CampusController {
	opts = opts.withDefaults()
	c := &CampusController{repo: repo, worker: newWorker()}
	c.all = newSharedStream(func(ctx context.Context) (domain.LiveList[domain.Campus], error) {
		return repo.ObserveAll(ctx, domain.SortNameAsc)
	}, opts.StreamGrace)
	c.active = newSharedStream(repo.ObserveActive, opts.StreamGrace)
	c.search = newSearcher(
		func(ctx context.Context) (domain.LiveList[domain.Campus], error) {
			return repo.ObserveAll(ctx, domain.SortNameAsc)
		},
		func(ctx context.Context, text string) (domain.LiveList[domain.Campus], error) {
			return repo.Search(ctx, text, domain.SortNameAsc)
		},
		opts.Debounce,
	)
	return c
}

func (c *CampusController) WatchAll(ctx context.Context) (*StreamSub[domain.Campus], error) {
	return c.all.Attach(ctx)
}

func (c *CampusController) WatchActive(ctx context.Context) (*StreamSub[domain.Campus], error) {
	return c.active.Attach(ctx)
}

func (c *CampusController) SetSearchQuery(text string) { c.search.SetQuery(text) }

func (c *CampusController) SearchResults() <-chan []domain.Campus { return c.search.Results() }

func (c *CampusController) GetByCodigo(ctx context.Context, codigo uint) (domain.Campus, bool, error) {
	return c.repo.GetByCodigo(ctx, codigo)
}

func (c *CampusController) Insert(name string) {
	trimmed := strings.TrimSpace(name)
	if err := validate.Struct(nameInput{Name: trimmed}); err != nil {
		c.outcome.post("Name is required")
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		if _, err := c.repo.Insert(ctx, domain.Campus{Name: trimmed}); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Campus added")
	})
}

// Update re-reads the row so fields not being edited (the lifecycle state in
// particular) survive the full-row replace.
func (c *CampusController) Update(codigo uint, name string) {
	trimmed := strings.TrimSpace(name)
	if err := validate.Struct(nameInput{Name: trimmed}); err != nil {
		c.outcome.post("Name is required")
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		current, ok, err := c.repo.GetByCodigo(ctx, codigo)
		if err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		if !ok {
			c.outcome.post("Campus not found")
			return
		}
		current.Name = trimmed
		if err := c.repo.Update(ctx, current); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Campus updated")
	})
}

func (c *CampusController) Delete(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Delete(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Campus deleted")
	})
}

func (c *CampusController) Inactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Inactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Campus inactivated")
	})
}

func (c *CampusController) Reactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Reactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Campus reactivated")
	})
}

func (c *CampusController) Message() (string, bool) { return c.outcome.Message() }

func (c *CampusController) AckMessage() { c.outcome.Ack() }

// Flush waits until every mutation enqueued so far has completed.
func (c *CampusController) Flush(ctx context.Context) error { return c.worker.flush(ctx) }

func (c *CampusController) Close() {
	c.worker.close()
	c.search.close()
	c.all.close()
	c.active.close()
}
