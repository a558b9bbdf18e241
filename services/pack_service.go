package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/packrat-app/packrat/database/models"
	"github.com/packrat-app/packrat/database/repositories"
)

// GIFProvider is what PackService needs from the GIF backend.
type GIFProvider interface {
	RandomGIF(ctx context.Context, tag string) (GIF, error)
}

// PackService opens packs: it draws one GIF per card from the pack's
// tag pool, optionally mirrors the art, and hands the mint plus the
// coin charge to the repository as one transaction.
type PackService struct {
	packs repositories.PackRepository
	users repositories.UserRepository
	gifs  GIFProvider
	media *MediaService
}

func NewPackService(
	packs repositories.PackRepository,
	users repositories.UserRepository,
	gifs GIFProvider,
	media *MediaService,
) *PackService {
	return &PackService{
		packs: packs,
		users: users,
		gifs:  gifs,
		media: media,
	}
}

func (s *PackService) OpenPack(ctx context.Context, userID, packID int64) ([]*models.Card, error) {
	pack, err := s.packs.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if len(pack.Tags) == 0 {
		return nil, fmt.Errorf("pack %d has no tags configured", pack.ID)
	}

	// Cheap pre-check before any upstream calls. The real guard is the
	// conditional charge inside Open.
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Coins < pack.Price {
		return nil, repositories.ErrInsufficientCoins
	}

	count := pack.CardsPerPack
	if count < 1 {
		count = 1
	}

	cards := make([]*models.Card, count)
	g, gctx := errgroup.WithContext(ctx)
	for i := range cards {
		i := i
		g.Go(func() error {
			tag := pack.Tags[rand.Intn(len(pack.Tags))]
			gif, err := s.gifs.RandomGIF(gctx, tag)
			if err != nil {
				return fmt.Errorf("failed to draw gif for tag %q: %w", tag, err)
			}

			gifURL := gif.URL
			if s.media != nil && s.media.Enabled() {
				gifURL, err = s.media.MirrorGIF(gctx, gif.URL, uuid.NewString())
				if err != nil {
					return fmt.Errorf("failed to mirror gif: %w", err)
				}
			}

			cards[i] = &models.Card{
				GIF:    gifURL,
				Source: gif.Source,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.packs.Open(ctx, userID, pack, cards); err != nil {
		return nil, err
	}
	return cards, nil
}
