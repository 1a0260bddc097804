// Package screenshot implements the paged screenshot screen: a view model that
// turns confirm taps into dismissals and a controller that binds its output to a grid.
package screenshot

import (
	"context"

	"github.com/samvad-hq/itunes-screenshots/pkg/itunes"
)

// Page is the pagination state handed to the grid.
type Page struct {
	URLs  []string
	Index int
}

// Navigator performs the dismiss action of the hosting screen.
type Navigator interface {
	Pop()
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) Pop() { f() }

// Input is the event stream the view model consumes.
type Input struct {
	ConfirmTapped <-chan struct{}
}

// Output carries exactly one Page, then closes.
type Output struct {
	Page <-chan Page
}

// ViewModel is a pure transformation from confirm taps to the page to show.
type ViewModel struct {
	urls      []string
	index     int
	navigator Navigator
}

// NewViewModel copies urls and clamps index into range (0 for an empty list).
func NewViewModel(urls []string, index int, navigator Navigator) *ViewModel {
	cp := make([]string, len(urls))
	copy(cp, urls)
	return &ViewModel{
		urls:      cp,
		index:     clampIndex(index, len(cp)),
		navigator: navigator,
	}
}

// NewViewModelFromLookup builds the view model from a lookup response.
func NewViewModelFromLookup(dto itunes.SearchResultDTO, index int, navigator Navigator) *ViewModel {
	return NewViewModel(dto.ScreenshotURLs(), index, navigator)
}

func clampIndex(index, n int) int {
	if n == 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// Transform wires input to output. Every confirm event pops the navigator once.
// The observer stops when ctx is done or the input closes, and a tap that was
// already pending at cancellation is dropped.
func (vm *ViewModel) Transform(ctx context.Context, in Input) Output {
	out := make(chan Page, 1)
	out <- vm.page()
	close(out)

	if in.ConfirmTapped != nil {
		go vm.observeConfirm(ctx, in.ConfirmTapped)
	}
	return Output{Page: out}
}

func (vm *ViewModel) page() Page {
	urls := make([]string, len(vm.urls))
	copy(urls, vm.urls)
	return Page{URLs: urls, Index: vm.index}
}

func (vm *ViewModel) observeConfirm(ctx context.Context, taps <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-taps:
			if !ok || ctx.Err() != nil {
				return
			}
			if vm.navigator != nil {
				vm.navigator.Pop()
			}
		}
	}
}
