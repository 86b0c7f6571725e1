package backup

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"PlantKeeper/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// bindImages associates bundled image files with restored plants. For each
// mapped plant it looks for an entry named plant-<sourceID>-..., uploads
// the bytes to the blob store under a fresh key and attaches that key to
// the destination plant. Every failure is a per-plant warning.
func (s *Service) bindImages(ctx context.Context, tx repositories.Store, userID uint, m *BackupManifest, arch *Archive, plantIDs map[int]uint, sum *Summary) {
	if len(arch.Images) == 0 {
		return
	}

	for i := range m.Plants {
		if ctx.Err() != nil {
			return
		}
		entry := &m.Plants[i]
		destID, ok := plantIDs[entry.ID]
		if !ok {
			continue
		}

		bound, err := s.bindPlantImage(ctx, tx, userID, entry.ID, destID, arch.Images)
		if err != nil {
			sum.warnf("Failed to restore image for plant '%s': %v", entry.Name, err)
			continue
		}
		if bound {
			sum.ImagesImported++
		}
	}
}

// bindPlantImage is a no-op when no bundled file matches the source plant.
func (s *Service) bindPlantImage(ctx context.Context, tx repositories.Store, userID uint, sourceID int, destID uint, images map[string][]byte) (bool, error) {
	prefix := fmt.Sprintf("plant-%d-", sourceID)

	var names []string
	for name := range images {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return false, nil
	}
	sort.Strings(names)
	name := names[0]

	key := fmt.Sprintf("plants/%s%s", uuid.NewString(), strings.ToLower(path.Ext(name)))
	if _, err := s.blobs.Upload(ctx, bytes.NewReader(images[name]), userID, key); err != nil {
		return false, fmt.Errorf("upload failed: %w", err)
	}

	plant, err := tx.Plants().GetByID(ctx, userID, destID)
	if err != nil {
		return false, err
	}
	plant.ImageURL = key
	if err := tx.Plants().Update(ctx, plant); err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"user":  userID,
		"plant": destID,
		"key":   key,
	}).Debug("Bound bundled image to restored plant")
	return true, nil
}
