package domain

import "time"

// DiffSnapshots computes the change set of current relative to previous.
func DiffSnapshots(current, previous Snapshot, changedBy string, at time.Time) []Change {
	return DiffRecords(current.Records, previous.Records, changedBy, at)
}

// DiffRecords reconciles two record sets keyed by user id. Users present
// in both sets yield one modification per fixed field whose value differs;
// users present only in current yield an addition; users present only in
// previous yield a removal. Emission order is not stable across runs
// beyond that grouping, so callers asserting on the result must sort.
func DiffRecords(current, previous []DemographicRecord, changedBy string, at time.Time) []Change {
	currentByID := indexByUser(current)
	previousByID := indexByUser(previous)

	changes := []Change{}

	for userID, cur := range currentByID {
		prev, exists := previousByID[userID]
		if !exists {
			changes = append(changes, Change{
				Field:     RecordField(userID),
				OldValue:  nil,
				NewValue:  cur.Clone(),
				ChangedBy: changedBy,
				Timestamp: at,
			})
			continue
		}
		for _, field := range comparedFields {
			oldValue := prev.AttributeValue(field)
			newValue := cur.AttributeValue(field)
			if oldValue == newValue {
				continue
			}
			changes = append(changes, Change{
				Field:     AttributeField(userID, field),
				OldValue:  oldValue,
				NewValue:  newValue,
				ChangedBy: changedBy,
				Timestamp: at,
			})
		}
	}

	for userID, prev := range previousByID {
		if _, exists := currentByID[userID]; exists {
			continue
		}
		changes = append(changes, Change{
			Field:     RecordField(userID),
			OldValue:  prev.Clone(),
			NewValue:  nil,
			ChangedBy: changedBy,
			Timestamp: at,
		})
	}

	return changes
}

func indexByUser(records []DemographicRecord) map[string]DemographicRecord {
	index := make(map[string]DemographicRecord, len(records))
	for _, record := range records {
		index[record.UserID] = record
	}
	return index
}
