package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

type DegreeTypeController struct {
	repo    domain.DegreeTypeRepository
	worker  *worker
	outcome outcome
	all     *sharedStream[domain.DegreeType]
	active  *sharedStream[domain.DegreeType]
	search  *searcher[domain.DegreeType]
}

func NewDegreeTypeController(repo domain.DegreeTypeRepository, opts Options) *DegreeTypeController {
	opts = opts.withDefaults()
	c := &DegreeTypeController{repo: repo, worker: newWorker()}
	c.all = newSharedStream(func(ctx context.Context) (domain.LiveList[domain.DegreeType], error) {
		return repo.ObserveAll(ctx, domain.SortNameAsc)
	}, opts.StreamGrace)
	c.active = newSharedStream(repo.ObserveActive, opts.StreamGrace)
	c.search = newSearcher(
		func(ctx context.Context) (domain.LiveList[domain.DegreeType], error) {
			return repo.ObserveAll(ctx, domain.SortNameAsc)
		},
		func(ctx context.Context, text string) (domain.LiveList[domain.DegreeType], error) {
			return repo.Search(ctx, text, domain.SortNameAsc)
		},
		opts.Debounce,
	)
	return c
}

func (c *DegreeTypeController) WatchAll(ctx context.Context) (*StreamSub[domain.DegreeType], error) {
	return c.all.Attach(ctx)
}

func (c *DegreeTypeController) WatchActive(ctx context.Context) (*StreamSub[domain.DegreeType], error) {
	return c.active.Attach(ctx)
}

func (c *DegreeTypeController) SetSearchQuery(text string) { c.search.SetQuery(text) }

func (c *DegreeTypeController) SearchResults() <-chan []domain.DegreeType { return c.search.Results() }

func (c *DegreeTypeController) GetByCodigo(ctx context.Context, codigo uint) (domain.DegreeType, bool, error) {
	return c.repo.GetByCodigo(ctx, codigo)
}

func (c *DegreeTypeController) Insert(name string) {
	trimmed := strings.TrimSpace(name)
	if err := validate.Struct(nameInput{Name: trimmed}); err != nil {
		c.outcome.post("Name is required")
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		if _, err := c.repo.Insert(ctx, domain.DegreeType{Name: trimmed}); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Degree type added")
	})
}

func (c *DegreeTypeController) Update(codigo uint, name string) {
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
			c.outcome.post("Degree type not found")
			return
		}
		current.Name = trimmed
		if err := c.repo.Update(ctx, current); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Degree type updated")
	})
}

func (c *DegreeTypeController) Delete(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Delete(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Degree type deleted")
	})
}

func (c *DegreeTypeController) Inactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Inactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Degree type inactivated")
	})
}

func (c *DegreeTypeController) Reactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Reactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Degree type reactivated")
	})
}

func (c *DegreeTypeController) Message() (string, bool) { return c.outcome.Message() }

func (c *DegreeTypeController) AckMessage() { c.outcome.Ack() }

func (c *DegreeTypeController) Flush(ctx context.Context) error { return c.worker.flush(ctx) }

func (c *DegreeTypeController) Close() {
	c.worker.close()
	c.search.close()
	c.all.close()
	c.active.close()
}
