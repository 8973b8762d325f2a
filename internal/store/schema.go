package store

// schemaVersion is the token stamped into the meta row on first
// initialization: a store opened with any other value in its meta row
// is refused.
const schemaVersion = "1.0"

// ddl is the full, idempotent schema. Table names are normative for
// implementations claiming on-disk compatibility. Most foreign keys
// cascade on delete; the references to ilis, ili statuses, lexfiles,
// adjective positions and a definition's source sense do not.
const ddl = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS lexicons (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	lex_id    TEXT NOT NULL,
	version   TEXT NOT NULL,
	label     TEXT NOT NULL,
	language  TEXT NOT NULL,
	email     TEXT NOT NULL,
	license   TEXT NOT NULL,
	url       TEXT NOT NULL DEFAULT '',
	citation  TEXT NOT NULL DEFAULT '',
	logo      TEXT NOT NULL DEFAULT '',
	metadata  TEXT NOT NULL DEFAULT '{}',
	modified  INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	UNIQUE (lex_id)
);

CREATE TABLE IF NOT EXISTS lexicon_dependencies (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	lexicon_id    INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	dep_id        TEXT NOT NULL,
	dep_version   TEXT NOT NULL,
	dep_url       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS lexicon_extensions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	lexicon_id    INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	ext_id        TEXT NOT NULL,
	ext_version   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS relation_types (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	domain  TEXT NOT NULL,
	kind    TEXT NOT NULL,
	inverse TEXT NOT NULL DEFAULT '',
	UNIQUE (domain, kind)
);

CREATE TABLE IF NOT EXISTS ili_statuses (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS lexfiles (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS ilis (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	ili_id     TEXT NOT NULL UNIQUE,
	status_id  INTEGER NOT NULL REFERENCES ili_statuses(id),
	definition TEXT NOT NULL DEFAULT '',
	metadata   TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS proposed_ilis (
	synset_id  INTEGER PRIMARY KEY REFERENCES synsets(id) ON DELETE CASCADE,
	definition TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	lexicon_id  INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	entry_id    TEXT NOT NULL UNIQUE,
	pos         TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS entry_index (
	entry_id          INTEGER PRIMARY KEY REFERENCES entries(id) ON DELETE CASCADE,
	lexicon_id        INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	normalized_lemma  TEXT NOT NULL,
	pos               TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entry_index_lemma ON entry_index(lexicon_id, normalized_lemma, pos);

CREATE TABLE IF NOT EXISTS forms (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id        INTEGER NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	written_form    TEXT NOT NULL,
	normalized_form TEXT NOT NULL,
	script          TEXT NOT NULL DEFAULT '',
	rank            INTEGER NOT NULL,
	UNIQUE (entry_id, written_form, script)
);

CREATE TABLE IF NOT EXISTS pronunciations (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	form_id   INTEGER NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	value     TEXT NOT NULL,
	variety   TEXT NOT NULL DEFAULT '',
	notation  TEXT NOT NULL DEFAULT '',
	phonemic  INTEGER NOT NULL DEFAULT 0,
	audio     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	form_id   INTEGER NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
	value     TEXT NOT NULL,
	category  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS synsets (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	lexicon_id     INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	synset_id      TEXT NOT NULL UNIQUE,
	pos            TEXT NOT NULL,
	ili_id         INTEGER REFERENCES ilis(id),
	lexfile_id     INTEGER REFERENCES lexfiles(id),
	metadata       TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS unlexicalized_synsets (
	synset_id INTEGER PRIMARY KEY REFERENCES synsets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS synset_relations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id  INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	target_id  INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	metadata   TEXT NOT NULL DEFAULT '{}',
	UNIQUE (source_id, kind, target_id)
);

CREATE TABLE IF NOT EXISTS definitions (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	synset_id         INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	text              TEXT NOT NULL,
	language          TEXT NOT NULL DEFAULT '',
	source_sense_id   INTEGER REFERENCES senses(id),
	metadata          TEXT NOT NULL DEFAULT '{}',
	position          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS synset_examples (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	synset_id   INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	text        TEXT NOT NULL,
	language    TEXT NOT NULL DEFAULT '',
	metadata    TEXT NOT NULL DEFAULT '{}',
	position    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS adjpositions (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	value TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS senses (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	sense_id         TEXT NOT NULL UNIQUE,
	entry_id         INTEGER NOT NULL REFERENCES entries(id) ON DELETE CASCADE,
	synset_id        INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	entry_rank       INTEGER NOT NULL,
	synset_rank      INTEGER NOT NULL,
	lexicalized      INTEGER NOT NULL DEFAULT 1,
	adjposition_id   INTEGER REFERENCES adjpositions(id),
	metadata         TEXT NOT NULL DEFAULT '{}',
	UNIQUE (entry_id, synset_id)
);

CREATE TABLE IF NOT EXISTS unlexicalized_senses (
	sense_id INTEGER PRIMARY KEY REFERENCES senses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS sense_relations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id  INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	target_id  INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	metadata   TEXT NOT NULL DEFAULT '{}',
	UNIQUE (source_id, kind, target_id)
);

CREATE TABLE IF NOT EXISTS sense_synset_relations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id  INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	kind       TEXT NOT NULL,
	target_id  INTEGER NOT NULL REFERENCES synsets(id) ON DELETE CASCADE,
	metadata   TEXT NOT NULL DEFAULT '{}',
	UNIQUE (source_id, kind, target_id)
);

CREATE TABLE IF NOT EXISTS sense_examples (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sense_id   INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	text       TEXT NOT NULL,
	language   TEXT NOT NULL DEFAULT '',
	metadata   TEXT NOT NULL DEFAULT '{}',
	position   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS counts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	sense_id   INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	value      INTEGER NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS syntactic_behaviours (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	lexicon_id  INTEGER NOT NULL REFERENCES lexicons(id) ON DELETE CASCADE,
	sb_id       TEXT,
	frame       TEXT NOT NULL,
	UNIQUE (lexicon_id, frame)
);

CREATE TABLE IF NOT EXISTS syntactic_behaviour_senses (
	sb_id     INTEGER NOT NULL REFERENCES syntactic_behaviours(id) ON DELETE CASCADE,
	sense_id  INTEGER NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
	PRIMARY KEY (sb_id, sense_id)
);

CREATE TABLE IF NOT EXISTS edit_history (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	kind        TEXT NOT NULL,
	entity_id   TEXT NOT NULL,
	field       TEXT NOT NULL DEFAULT '',
	operation   TEXT NOT NULL,
	old_value   TEXT NOT NULL DEFAULT '',
	new_value   TEXT NOT NULL DEFAULT '',
	timestamp   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edit_history_entity ON edit_history(kind, entity_id);
CREATE INDEX IF NOT EXISTS idx_edit_history_time ON edit_history(timestamp);
`

// seedILIStatuses are inserted once at initialize.
var seedILIStatuses = []string{"active", "presupposed", "deprecated"}

// seedAdjPositions are the WN-LMF 1.4 adjective-position values.
var seedAdjPositions = []string{"a", "ip", "p"}
