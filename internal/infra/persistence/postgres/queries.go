package postgres

// personsWithWorkAddressSQL expands every element of persons.addresses into a row, keeps the
// rows whose Type is 'Work' and joins back to the owning persons. It takes no parameters.
// A column that is not an array expands to no rows, and ->> yields NULL for scalar elements.
const personsWithWorkAddressSQL = `WITH address_matches (person_id) AS (
    SELECT DISTINCT p.id FROM persons p
    CROSS JOIN LATERAL jsonb_array_elements(
        CASE WHEN jsonb_typeof(p.addresses) = 'array' THEN p.addresses ELSE '[]'::jsonb END
    ) AS a(address)
    WHERE a.address->>'Type' = 'Work'
)
SELECT persons.* FROM persons INNER JOIN address_matches ON persons.id = address_matches.person_id`

// personsByAddressTypeSQL is personsWithWorkAddressSQL with the address type bound as a parameter.
const personsByAddressTypeSQL = `WITH address_matches (person_id) AS (
    SELECT DISTINCT p.id FROM persons p
    CROSS JOIN LATERAL jsonb_array_elements(
        CASE WHEN jsonb_typeof(p.addresses) = 'array' THEN p.addresses ELSE '[]'::jsonb END
    ) AS a(address)
    WHERE a.address->>'Type' = ?
)
SELECT persons.* FROM persons INNER JOIN address_matches ON persons.id = address_matches.person_id
ORDER BY persons.id`
