package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

type FacultyController struct {
	repo    domain.FacultyRepository
	worker  *worker
	outcome outcome
	all     *sharedStream[domain.Faculty]
	active  *sharedStream[domain.Faculty]
	search  *searcher[domain.Faculty]
}

func NewFacultyController(repo domain.FacultyRepository, opts Options) *FacultyController {
	opts = opts.withDefaults()
	c := &FacultyController{repo: repo, worker: newWorker()}
	c.all = newSharedStream(func(ctx context.Context) (domain.LiveList[domain.Faculty], error) {
		return repo.ObserveAll(ctx, domain.SortNameAsc)
	}, opts.StreamGrace)
	c.active = newSharedStream(repo.ObserveActive, opts.StreamGrace)
	c.search = newSearcher(
		func(ctx context.Context) (domain.LiveList[domain.Faculty], error) {
			return repo.ObserveAll(ctx, domain.SortNameAsc)
		},
		func(ctx context.Context, text string) (domain.LiveList[domain.Faculty], error) {
			return repo.Search(ctx, text, domain.SortNameAsc)
		},
		opts.Debounce,
	)
	return c
}

func (c *FacultyController) WatchAll(ctx context.Context) (*StreamSub[domain.Faculty], error) {
	return c.all.Attach(ctx)
}

func (c *FacultyController) WatchActive(ctx context.Context) (*StreamSub[domain.Faculty], error) {
	return c.active.Attach(ctx)
}

func (c *FacultyController) SetSearchQuery(text string) { c.search.SetQuery(text) }

func (c *FacultyController) SearchResults() <-chan []domain.Faculty { return c.search.Results() }

func (c *FacultyController) GetByCodigo(ctx context.Context, codigo uint) (domain.Faculty, bool, error) {
	return c.repo.GetByCodigo(ctx, codigo)
}

func (c *FacultyController) Insert(name string) {
	trimmed := strings.TrimSpace(name)
	if err := validate.Struct(nameInput{Name: trimmed}); err != nil {
		c.outcome.post("Name is required")
		return
	}
	c.worker.enqueue(func(ctx context.Context) {
		if _, err := c.repo.Insert(ctx, domain.Faculty{Name: trimmed}); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Faculty added")
	})
}

func (c *FacultyController) Update(codigo uint, name string) {
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
			c.outcome.post("Faculty not found")
			return
		}
		current.Name = trimmed
		if err := c.repo.Update(ctx, current); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Faculty updated")
	})
}

func (c *FacultyController) Delete(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Delete(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Faculty deleted")
	})
}

func (c *FacultyController) Inactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Inactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Faculty inactivated")
	})
}

func (c *FacultyController) Reactivate(codigo uint) {
	c.worker.enqueue(func(ctx context.Context) {
		if err := c.repo.Reactivate(ctx, codigo); err != nil {
			c.outcome.post("Error: " + err.Error())
			return
		}
		c.outcome.post("Faculty reactivated")
	})
}

func (c *FacultyController) Message() (string, bool) { return c.outcome.Message() }

func (c *FacultyController) AckMessage() { c.outcome.Ack() }

func (c *FacultyController) Flush(ctx context.Context) error { return c.worker.flush(ctx) }

func (c *FacultyController) Close() {
	c.worker.close()
	c.search.close()
	c.all.close()
	c.active.close()
}
