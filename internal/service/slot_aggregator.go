package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
)

// AggregationPolicy controls how meeting blocks are filtered after merging.
type AggregationPolicy struct {
	// MinBlockMinutes is the shortest block usable as a class meeting.
	MinBlockMinutes int
	// DropShortBlocks discards sub-minimum blocks; when false callers treat
	// a sub-minimum block as a reportable condition instead.
	DropShortBlocks bool
}

// DefaultAggregationPolicy matches the portal's standard class length.
func DefaultAggregationPolicy() AggregationPolicy {
	return AggregationPolicy{MinBlockMinutes: 60, DropShortBlocks: true}
}

// AggregateBlocks merges a professor's availability slots into ordered
// meeting blocks. Slots without a subject preference are skipped. A run of
// slots merges while each next slot starts exactly where the block ends and
// carries the same subject. Output order is deterministic: day Mon→Fri,
// then start time ascending.
func AggregateBlocks(slots []models.AvailabilitySlot) []models.MeetingBlock {
	qualified := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.SubjectID == nil {
			continue
		}
		if _, ok := models.WeekdayIndex(slot.DayOfWeek); !ok {
			continue
		}
		qualified = append(qualified, slot)
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		di, _ := models.WeekdayIndex(qualified[i].DayOfWeek)
		dj, _ := models.WeekdayIndex(qualified[j].DayOfWeek)
		if di != dj {
			return di < dj
		}
		return qualified[i].StartMinute < qualified[j].StartMinute
	})

	var blocks []models.MeetingBlock
	for _, slot := range qualified {
		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			if last.DayOfWeek == slot.DayOfWeek && last.EndMinute == slot.StartMinute && last.SubjectID == *slot.SubjectID {
				last.EndMinute = slot.EndMinute
				continue
			}
		}
		blocks = append(blocks, models.MeetingBlock{
			DayOfWeek:   slot.DayOfWeek,
			StartMinute: slot.StartMinute,
			EndMinute:   slot.EndMinute,
			SubjectID:   *slot.SubjectID,
		})
	}
	return blocks
}

// FilterBySubject keeps only blocks for the given subject.
func FilterBySubject(blocks []models.MeetingBlock, subjectID int64) []models.MeetingBlock {
	filtered := make([]models.MeetingBlock, 0, len(blocks))
	for _, block := range blocks {
		if block.SubjectID == subjectID {
			filtered = append(filtered, block)
		}
	}
	return filtered
}

// SplitByMinimum partitions blocks into those meeting the policy's minimum
// duration and those below it.
func SplitByMinimum(blocks []models.MeetingBlock, policy AggregationPolicy) (kept, short []models.MeetingBlock) {
	for _, block := range blocks {
		if block.Duration() < policy.MinBlockMinutes {
			short = append(short, block)
			continue
		}
		kept = append(kept, block)
	}
	return kept, short
}

// SubjectIDs returns the distinct subject ids present among blocks, ascending.
func SubjectIDs(blocks []models.MeetingBlock) []int64 {
	seen := make(map[int64]struct{}, len(blocks))
	var ids []int64
	for _, block := range blocks {
		if _, ok := seen[block.SubjectID]; ok {
			continue
		}
		seen[block.SubjectID] = struct{}{}
		ids = append(ids, block.SubjectID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// BlockCache memoizes aggregation results keyed by a content hash of the
// slot set, so repeated reads of an unchanged grid skip the merge. It never
// caches by object identity.
type BlockCache struct {
	mu      sync.Mutex
	entries map[string][]models.MeetingBlock
}

// NewBlockCache builds an empty cache.
func NewBlockCache() *BlockCache {
	return &BlockCache{entries: make(map[string][]models.MeetingBlock)}
}

// Aggregate returns memoized blocks for the slot set, computing them once
// per distinct content.
func (c *BlockCache) Aggregate(slots []models.AvailabilitySlot) []models.MeetingBlock {
	key := hashSlots(slots)

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return append([]models.MeetingBlock(nil), cached...)
	}

	blocks := AggregateBlocks(slots)

	c.mu.Lock()
	c.entries[key] = blocks
	c.mu.Unlock()
	return append([]models.MeetingBlock(nil), blocks...)
}

func hashSlots(slots []models.AvailabilitySlot) string {
	lines := make([]string, 0, len(slots))
	for _, slot := range slots {
		subject := int64(0)
		if slot.SubjectID != nil {
			subject = *slot.SubjectID
		}
		lines = append(lines, fmt.Sprintf("%d|%s|%d|%d|%d", slot.ProfessorID, slot.DayOfWeek, slot.StartMinute, slot.EndMinute, subject))
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}
