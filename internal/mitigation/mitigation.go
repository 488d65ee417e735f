// Package mitigation turns the run's hazard detections and global
// violation flags into a fixed-template remediation plan.
package mitigation

import (
	"fmt"
	"strings"

	"github.com/pathwatch-data/hallway.report/internal/detect"
)

// Strategy is one remediation record. Everything except Description is
// static per template; Description embeds the actual detections.
type Strategy struct {
	Type             string   `json:"type"`
	Severity         string   `json:"severity"`
	Urgency          string   `json:"urgency"`
	Description      string   `json:"description"`
	SpecificRisks    []string `json:"specific_risks"`
	MitigationSteps  []string `json:"mitigation_steps"`
	Timeline         string   `json:"timeline"`
	ResponsibleParty string   `json:"responsible_party"`
	EstimatedCost    string   `json:"estimated_cost"`
	EmergencyImpact  string   `json:"emergency_impact"`
	Compliance       string   `json:"compliance,omitempty"`
}

// Hazard buckets, in output order.
const (
	bucketVehicles      = "vehicles"
	bucketFurniture     = "furniture"
	bucketPersonalItems = "personal_items"
	bucketContainers    = "containers"
	bucketTripHazards   = "trip_hazards"
	bucketEquipment     = "equipment"
	bucketPeople        = "people"
	bucketOther         = "other_hazards"
)

var bucketOrder = []string{
	bucketVehicles,
	bucketFurniture,
	bucketPersonalItems,
	bucketContainers,
	bucketTripHazards,
	bucketEquipment,
	bucketPeople,
	bucketOther,
}

// Synthesize builds the remediation plan from all hazard-classified
// detections plus the two annotation-derived violation flags. Exactly
// one record per non-empty bucket, one per set flag, and a single
// preventive fallback when nothing at all was found.
func Synthesize(detections []detect.Detection, incorrectParking, wasteMaterial bool) []Strategy {
	buckets := make(map[string][]detect.Detection)
	for _, d := range detections {
		if !d.PotentialHazard {
			continue
		}
		b := bucketFor(d)
		buckets[b] = append(buckets[b], d)
	}

	var strategies []Strategy
	for _, b := range bucketOrder {
		members := buckets[b]
		if len(members) == 0 {
			continue
		}
		strategies = append(strategies, bucketStrategy(b, members))
	}

	if incorrectParking {
		strategies = append(strategies, parkingViolationStrategy())
	}
	if wasteMaterial {
		strategies = append(strategies, wasteDebrisStrategy())
	}

	if len(strategies) == 0 {
		strategies = append(strategies, preventiveStrategy())
	}
	return strategies
}

// bucketFor assigns a detection to its hazard bucket by safety category
// and class-name keywords. First match wins.
func bucketFor(d detect.Detection) string {
	name := strings.ToLower(d.ClassName)
	switch {
	case d.SafetyCategory == "vehicle" || containsAny(name, "car", "truck", "bus", "motorcycle", "bicycle"):
		return bucketVehicles
	case d.SafetyCategory == "person" || strings.Contains(name, "person"):
		return bucketPeople
	case containsAny(name, "chair", "table", "bench", "desk", "cabinet"):
		return bucketFurniture
	case containsAny(name, "bag", "suitcase", "backpack", "luggage"):
		return bucketPersonalItems
	case containsAny(name, "box", "container", "barrel", "bucket"):
		return bucketContainers
	case containsAny(name, "bottle", "cup", "ball", "book", "phone"):
		return bucketTripHazards
	case containsAny(name, "monitor", "computer", "printer", "machine"):
		return bucketEquipment
	default:
		return bucketOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// memberList renders "class (conf: 0.00)" for every bucket member.
func memberList(members []detect.Detection) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = fmt.Sprintf("%s (conf: %.2f)", m.ClassName, m.Confidence)
	}
	return strings.Join(parts, ", ")
}

func bucketStrategy(bucket string, members []detect.Detection) Strategy {
	n := len(members)
	switch bucket {
	case bucketVehicles:
		return Strategy{
			Type:        "vehicle_parking_violation",
			Severity:    "critical",
			Urgency:     "immediate",
			Description: fmt.Sprintf("Detected %d vehicle(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Blocks emergency vehicle access",
				"Prevents fire brigade movement",
				"Obstructs evacuation routes",
				"Creates fire safety violations",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Contact vehicle owners for immediate removal",
				"IMMEDIATE: Deploy traffic cones to mark violation area",
				"SHORT-TERM: Install permanent 'No Parking' signage",
				"SHORT-TERM: Paint red lines on pavement",
				"LONG-TERM: Install physical barriers (bollards)",
				"LONG-TERM: Implement automated monitoring system",
			},
			Timeline:         "Immediate action required within 30 minutes",
			ResponsibleParty: "Security/Facilities Management",
			EstimatedCost:    "Low ($100-500 for signage) to Medium ($2000-5000 for barriers)",
			EmergencyImpact:  "Critical - directly blocks emergency vehicle access",
			Compliance:       "Fire safety code violation - immediate remediation required",
		}
	case bucketFurniture:
		return Strategy{
			Type:        "furniture_obstruction",
			Severity:    "high",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d furniture item(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Reduces pathway width below minimum requirements",
				"Impedes emergency evacuation flow",
				"Creates bottlenecks during emergencies",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Relocate furniture to designated areas",
				"SHORT-TERM: Mark minimum pathway widths with tape",
				"MEDIUM-TERM: Designate specific furniture zones",
				"LONG-TERM: Implement 5S workplace organization",
			},
			Timeline:         "Complete within 24 hours",
			ResponsibleParty: "Warehouse Operations/Maintenance",
			EstimatedCost:    "Low ($50-200 for marking materials)",
			EmergencyImpact:  "High - significantly impedes evacuation flow",
		}
	case bucketPersonalItems:
		return Strategy{
			Type:        "personal_belongings_management",
			Severity:    "low",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d personal item(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Creates pathway clutter",
				"May contain valuable items (security risk)",
				"Indicates lack of proper storage protocols",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Relocate to designated personal storage areas",
				"SHORT-TERM: Install personal lockers if needed",
				"MEDIUM-TERM: Implement clear desk/area policies",
				"LONG-TERM: Staff training on personal item management",
			},
			Timeline:         "Complete within 1 week",
			ResponsibleParty: "HR/Facilities Management",
			EstimatedCost:    "Medium ($200-1000 for storage solutions)",
			EmergencyImpact:  "Low - minimal impact on emergency procedures",
		}
	case bucketContainers:
		return Strategy{
			Type:        "container_storage_violation",
			Severity:    "medium",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d container(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Creates pathway obstacles",
				"Potential for contents to spill",
				"May fall and cause injuries",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Move containers to designated storage areas",
				"SHORT-TERM: Secure containers properly",
				"MEDIUM-TERM: Install proper shelving systems",
				"LONG-TERM: Implement container management protocols",
			},
			Timeline:         "Complete within 2-3 days",
			ResponsibleParty: "Warehouse Staff/Supervisors",
			EstimatedCost:    "Medium ($500-2000 for storage solutions)",
			EmergencyImpact:  "Medium - creates obstacles but pathways remain navigable",
		}
	case bucketTripHazards:
		return Strategy{
			Type:        "trip_hazard_elimination",
			Severity:    "medium",
			Urgency:     "immediate",
			Description: fmt.Sprintf("Detected %d trip hazard(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Causes falls and injuries",
				"Slows emergency evacuation",
				"Creates liability issues",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Remove or secure loose objects",
				"IMMEDIATE: Clean up spills and debris",
				"SHORT-TERM: Install adequate trash receptacles",
				"MEDIUM-TERM: Implement regular cleaning schedule",
				"LONG-TERM: Staff training on housekeeping protocols",
			},
			Timeline:         "Immediate removal within 1 hour",
			ResponsibleParty: "Cleaning/Maintenance Staff",
			EstimatedCost:    "Low ($20-100 for cleaning supplies)",
			EmergencyImpact:  "Medium - may cause delays during evacuation",
		}
	case bucketEquipment:
		return Strategy{
			Type:        "equipment_placement_violation",
			Severity:    "medium",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d equipment item(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Fixed equipment narrows escape routes",
				"Power cabling creates trip hazards",
				"Heat sources increase fire load in pathways",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Verify equipment is not blocking exits",
				"SHORT-TERM: Relocate equipment to designated workstations",
				"MEDIUM-TERM: Route and cover all cabling properly",
				"LONG-TERM: Review equipment placement in floor plans",
			},
			Timeline:         "Complete within 1 week",
			ResponsibleParty: "IT/Facilities Management",
			EstimatedCost:    "Medium ($200-1000 for relocation and mounting)",
			EmergencyImpact:  "Medium - fixed obstacles reduce usable pathway width",
		}
	case bucketPeople:
		return Strategy{
			Type:        "personnel_safety_training",
			Severity:    "medium",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d person(s) in area", n),
			SpecificRisks: []string{
				"Personnel may not be aware of emergency procedures",
				"Potential for panic during emergencies",
				"May inadvertently block evacuation routes",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Conduct emergency procedure briefing",
				"SHORT-TERM: Post emergency evacuation maps",
				"MEDIUM-TERM: Conduct emergency evacuation drills",
				"LONG-TERM: Implement regular safety training program",
			},
			Timeline:         "Initial briefing within 24 hours, full training within 1 month",
			ResponsibleParty: "Safety Officer/HR Department",
			EstimatedCost:    "Low ($100-500 for training materials)",
			EmergencyImpact:  "Variable - depends on personnel emergency preparedness",
		}
	default:
		return Strategy{
			Type:        "unclassified_hazard_review",
			Severity:    "medium",
			Urgency:     "short-term",
			Description: fmt.Sprintf("Detected %d unclassified hazard(s): %s", n, memberList(members)),
			SpecificRisks: []string{
				"Hazard nature requires on-site assessment",
				"May obstruct pathways or emergency access",
			},
			MitigationSteps: []string{
				"IMMEDIATE: Inspect flagged objects on site",
				"SHORT-TERM: Remove or relocate confirmed obstructions",
				"MEDIUM-TERM: Update hazard classification guidelines",
				"LONG-TERM: Review recurring unclassified detections",
			},
			Timeline:         "On-site inspection within 24 hours",
			ResponsibleParty: "Safety Officer",
			EstimatedCost:    "Low ($50-200 for initial assessment)",
			EmergencyImpact:  "Variable - requires on-site assessment",
		}
	}
}

func parkingViolationStrategy() Strategy {
	return Strategy{
		Type:        "ai_detected_parking_violation",
		Severity:    "critical",
		Urgency:     "immediate",
		Description: "AI visual analysis detected parking violations affecting emergency access",
		SpecificRisks: []string{
			"Confirmed visual obstruction of emergency routes",
			"Fire code compliance violation",
			"Insurance liability issues",
		},
		MitigationSteps: []string{
			"IMMEDIATE: Document violation with photos",
			"IMMEDIATE: Contact vehicle owners",
			"SHORT-TERM: Install physical barriers",
			"LONG-TERM: Implement automated monitoring",
		},
		Timeline:         "Immediate action required",
		ResponsibleParty: "Security/Management",
		EstimatedCost:    "Medium ($1000-3000 for comprehensive solution)",
		EmergencyImpact:  "Critical - confirmed emergency access obstruction",
	}
}

func wasteDebrisStrategy() Strategy {
	return Strategy{
		Type:        "ai_detected_waste_debris",
		Severity:    "medium",
		Urgency:     "immediate",
		Description: "AI visual analysis detected waste or debris in pathways",
		SpecificRisks: []string{
			"Confirmed pathway obstruction",
			"Slip and trip hazards",
			"Fire fuel load concerns",
		},
		MitigationSteps: []string{
			"IMMEDIATE: Remove waste and debris",
			"SHORT-TERM: Increase cleaning frequency",
			"MEDIUM-TERM: Install additional waste receptacles",
			"LONG-TERM: Implement waste management protocols",
		},
		Timeline:         "Complete cleaning within 2 hours",
		ResponsibleParty: "Cleaning/Maintenance Staff",
		EstimatedCost:    "Low ($50-200 for enhanced cleaning)",
		EmergencyImpact:  "Medium - creates evacuation hazards",
	}
}

func preventiveStrategy() Strategy {
	return Strategy{
		Type:        "preventive_maintenance",
		Severity:    "low",
		Urgency:     "long-term",
		Description: "No immediate hazards detected - implement preventive measures",
		SpecificRisks: []string{
			"Future hazard development",
			"Gradual safety standard degradation",
		},
		MitigationSteps: []string{
			"ONGOING: Maintain regular safety inspections",
			"MONTHLY: Review and update safety protocols",
			"QUARTERLY: Conduct comprehensive safety audits",
			"ANNUALLY: Update emergency response procedures",
		},
		Timeline:         "Ongoing preventive program",
		ResponsibleParty: "Safety Committee",
		EstimatedCost:    "Low ($100-300 monthly for ongoing programs)",
		EmergencyImpact:  "Preventive - maintains safety standards",
	}
}
