// Package sqlite implements the SQLite backend for the EAVL storage engine.
// SQLite is the query engine; JSONL files in the data directory are the
// durable source of truth, reloaded on Attach.
package sqlite

// Schema DDL. One table per entity kind plus one value partition per
// attribute value type, so payloads stay native and indexable.
const (
	createClasses = `CREATE TABLE classes (
    class_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    verbose_name TEXT,
    created_at TEXT NOT NULL
);`

	createEntities = `CREATE TABLE entities (
    entity_id TEXT PRIMARY KEY,
    class_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (class_id) REFERENCES classes(class_id)
);`

	createAttributes = `CREATE TABLE attributes (
    attribute_id TEXT PRIMARY KEY,
    class_id TEXT NOT NULL,
    name TEXT NOT NULL,
    value_type TEXT NOT NULL,
    required INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    UNIQUE (class_id, name),
    FOREIGN KEY (class_id) REFERENCES classes(class_id)
);`

	createLinkTypes = `CREATE TABLE link_types (
    name TEXT PRIMARY KEY,
    description TEXT,
    created_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    position INTEGER,
    created_at TEXT NOT NULL,
    FOREIGN KEY (from_id) REFERENCES entities(entity_id),
    FOREIGN KEY (to_id) REFERENCES entities(entity_id)
);`

	createValuesInteger = `CREATE TABLE values_integer (
    entity_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (entity_id, attribute_id),
    FOREIGN KEY (entity_id) REFERENCES entities(entity_id),
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`

	createValuesFloat = `CREATE TABLE values_float (
    entity_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value REAL NOT NULL,
    PRIMARY KEY (entity_id, attribute_id),
    FOREIGN KEY (entity_id) REFERENCES entities(entity_id),
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`

	createValuesText = `CREATE TABLE values_text (
    entity_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (entity_id, attribute_id),
    FOREIGN KEY (entity_id) REFERENCES entities(entity_id),
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`

	createValuesBoolean = `CREATE TABLE values_boolean (
    entity_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value INTEGER NOT NULL,
    PRIMARY KEY (entity_id, attribute_id),
    FOREIGN KEY (entity_id) REFERENCES entities(entity_id),
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`

	createValuesTimestamp = `CREATE TABLE values_timestamp (
    entity_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (entity_id, attribute_id),
    FOREIGN KEY (entity_id) REFERENCES entities(entity_id),
    FOREIGN KEY (attribute_id) REFERENCES attributes(attribute_id)
);`
)

// Index DDL for common queries. Each value partition is indexed on
// (attribute_id, value) to keep predicate scans sub-linear.
const (
	idxEntitiesClass     = `CREATE INDEX idx_entities_class ON entities(class_id);`
	idxAttributesClass   = `CREATE INDEX idx_attributes_class ON attributes(class_id);`
	idxLinksUnique       = `CREATE UNIQUE INDEX idx_links_unique ON links(link_type, from_id, to_id);`
	idxLinksTypeFrom     = `CREATE INDEX idx_links_type_from ON links(link_type, from_id);`
	idxLinksTypeTo       = `CREATE INDEX idx_links_type_to ON links(link_type, to_id);`
	idxValuesIntegerAV   = `CREATE INDEX idx_values_integer_av ON values_integer(attribute_id, value);`
	idxValuesFloatAV     = `CREATE INDEX idx_values_float_av ON values_float(attribute_id, value);`
	idxValuesTextAV      = `CREATE INDEX idx_values_text_av ON values_text(attribute_id, value);`
	idxValuesBooleanAV   = `CREATE INDEX idx_values_boolean_av ON values_boolean(attribute_id, value);`
	idxValuesTimestampAV = `CREATE INDEX idx_values_timestamp_av ON values_timestamp(attribute_id, value);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createClasses,
	createEntities,
	createAttributes,
	createLinkTypes,
	createLinks,
	createValuesInteger,
	createValuesFloat,
	createValuesText,
	createValuesBoolean,
	createValuesTimestamp,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntitiesClass,
	idxAttributesClass,
	idxLinksUnique,
	idxLinksTypeFrom,
	idxLinksTypeTo,
	idxValuesIntegerAV,
	idxValuesFloatAV,
	idxValuesTextAV,
	idxValuesBooleanAV,
	idxValuesTimestampAV,
}
