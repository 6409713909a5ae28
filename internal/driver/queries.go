package driver

const (
	SavePersonQuery = `
		MERGE (n:Person {uuid: $uuid})
		SET n.kind = $kind,
			n.outbreak_id = $outbreak_id,
			n.first_name = $first_name,
			n.last_name = $last_name,
			n.name_lower = $name_lower,
			n.dob = $dob,
			n.age_years = $age_years,
			n.age_months = $age_months,
			n.visual_id = $visual_id,
			n.date = $date,
			n.created_at = $created_at
		RETURN n.uuid AS uuid
	`

	DeletePersonQuery = `
		MATCH (n:Person {uuid: $uuid, outbreak_id: $outbreak_id})
		DETACH DELETE n
	`

	SaveRelationshipQuery = `
		MATCH (source:Person {uuid: $source_uuid})
		MATCH (target:Person {uuid: $target_uuid})
		MERGE (source)-[e:EXPOSED_TO {uuid: $uuid}]->(target)
		SET e.outbreak_id = $outbreak_id,
			e.source_kind = $source_kind,
			e.contact_date = $contact_date,
			e.certainty_level = $certainty_level,
			e.exposure_type = $exposure_type,
			e.created_at = $created_at
		RETURN e.uuid AS uuid
	`

	// Candidates match on name or exact dob. Pairs the operator already
	// marked as not-a-duplicate against $exclude_uuid are filtered out.
	FindDuplicatePersonsQuery = `
		MATCH (n:Person {outbreak_id: $outbreak_id})
		WHERE ((n.name_lower CONTAINS $first_name_lower AND n.name_lower CONTAINS $last_name_lower)
		   OR ($dob <> '' AND n.dob = $dob))
		  AND ($exclude_uuid = '' OR (n.uuid <> $exclude_uuid
		   AND NOT (n)-[:NOT_A_DUPLICATE]-(:Person {uuid: $exclude_uuid})))
		RETURN n.uuid AS uuid, n.kind AS kind, n.first_name AS first_name,
			n.last_name AS last_name, n.dob AS dob, n.age_years AS age_years,
			n.age_months AS age_months, n.visual_id AS visual_id, n.date AS date
		ORDER BY n.created_at
		LIMIT $limit
	`

	MarkNotDuplicateQuery = `
		MATCH (a:Person {uuid: $uuid, outbreak_id: $outbreak_id})
		MATCH (b:Person {outbreak_id: $outbreak_id})
		WHERE b.uuid IN $duplicate_uuids
		MERGE (a)-[s:NOT_A_DUPLICATE]->(b)
		SET s.created_at = $created_at
		RETURN count(s) AS marked
	`

	CountVisualIDQuery = `
		MATCH (n:Person {outbreak_id: $outbreak_id, visual_id: $visual_id})
		RETURN count(n) AS hits
	`
)
