package model

import "time"

// Outcome tells whether the warehouse followed the advice.
type Outcome string

const (
	OutcomeFollowed Outcome = "followed"
	OutcomeModified Outcome = "modified"
	OutcomeIgnored  Outcome = "ignored"
	OutcomeNoAdvice Outcome = "no_advice"
)

// Deviation classifies how the packed boxes differ from the advice.
type Deviation string

const (
	DeviationNone               Deviation = "none"
	DeviationDifferentPackaging Deviation = "different_packaging"
	DeviationExtraBoxes         Deviation = "extra_boxes"
	DeviationFewerBoxes         Deviation = "fewer_boxes"
	DeviationMixed              Deviation = "mixed"
)

// ActualBox is a container the warehouse really used.
type ActualBox struct {
	ExternalContainerID int64  `bson:"external_container_id" json:"externalContainerId" example:"42"`
	Name                string `bson:"name,omitempty" json:"name,omitempty" example:"Box S"`
}

// OutcomeRecord is the feedback stored on an advice once the order ships.
type OutcomeRecord struct {
	Outcome     Outcome     `bson:"outcome" json:"outcome"`
	Deviation   Deviation   `bson:"deviation" json:"deviation"`
	ActualBoxes []ActualBox `bson:"actual_boxes" json:"actualBoxes"`
	ResolvedAt  time.Time   `bson:"resolved_at" json:"resolvedAt"`
}
