package service

import (
	"fmt"

	"github.com/campushq/scheduler-api/internal/models"
)

// resourceUsage maps each bookable resource kind to the id occupying it in a
// single assignment. Both schedulers reduce their entries to this shape before
// collision detection, so weekly and dated assignments share one core.
type resourceUsage map[models.ResourceKind]string

// resourceOrder fixes the reporting order of collisions.
var resourceOrder = []models.ResourceKind{models.ResourceTeacher, models.ResourceRoom, models.ResourceClass}

// sharedResources returns every resource kind bound to the same id in both
// usages. Each shared resource is a separate collision: an existing assignment
// that shares both the room and the class yields two entries.
func sharedResources(candidate, existing resourceUsage) []models.ResourceKind {
	var shared []models.ResourceKind
	for _, kind := range resourceOrder {
		id, ok := candidate[kind]
		if !ok || id == "" {
			continue
		}
		if existing[kind] == id {
			shared = append(shared, kind)
		}
	}
	return shared
}

func conflictMessage(kind models.ResourceKind) string {
	switch kind {
	case models.ResourceTeacher:
		return "teacher already scheduled for this slot"
	case models.ResourceRoom:
		return "room already booked for this slot"
	case models.ResourceClass:
		return "class already scheduled for this slot"
	}
	return fmt.Sprintf("resource %s already booked for this slot", kind)
}
