package constants

// Schema

const (
	FileSequenceName = "seq_file_processing_id"

	CreateFileSequence = `
	CREATE SEQUENCE IF NOT EXISTS seq_file_processing_id START 1
	`

	CreateFileProcessingTable = `
	CREATE TABLE IF NOT EXISTS file_processing_control (
		id            INTEGER PRIMARY KEY,
		file_name     VARCHAR NOT NULL UNIQUE,
		processed_at  TIMESTAMP NOT NULL,
		status        VARCHAR NOT NULL,
		row_count     INTEGER,
		error_message VARCHAR
	)
	`

	// Column order must match entities.FlightColumns
	CreateFlightsTable = `
	CREATE TABLE IF NOT EXISTS flights (
		id               BIGINT,
		file_id          INTEGER,
		fecha            DATE,
		sid              VARCHAR,
		callsign         VARCHAR,
		matricula        VARCHAR,
		tipo_aeronave    VARCHAR,
		empresa          VARCHAR,
		tipo_vuelo       VARCHAR,
		numero_vuelo     INTEGER,
		nivel            INTEGER,
		tiempo_inicial   TIMESTAMP,
		origen           VARCHAR,
		destino          VARCHAR,
		fecha_salida     DATE,
		fecha_llegada    DATE,
		hora_salida      TIME,
		hora_pv          TIME,
		hora_llegada     TIME,
		duracion         INTEGER,
		distancia        INTEGER,
		velocidad        INTEGER,
		ruta             VARCHAR,
		regla_vuelo      VARCHAR,
		categoria_estela VARCHAR,
		punto_entrada    VARCHAR,
		punto_salida     VARCHAR
	)
	`

	CreateSectorsTable = `
	CREATE TABLE IF NOT EXISTS sectors (
		id                  VARCHAR PRIMARY KEY,
		name                VARCHAR NOT NULL,
		definition          VARCHAR NOT NULL,
		t_transfer          DOUBLE NOT NULL DEFAULT 0,
		t_comm_ag           DOUBLE NOT NULL DEFAULT 0,
		t_separation        DOUBLE NOT NULL DEFAULT 0,
		t_coordination      DOUBLE NOT NULL DEFAULT 0,
		adjustment_factor_r DOUBLE NOT NULL DEFAULT 0.8,
		capacity_baseline   INTEGER,
		created_at          TIMESTAMP NOT NULL,
		updated_at          TIMESTAMP NOT NULL
	)
	`

	CreateRegionsTable = `
	CREATE TABLE IF NOT EXISTS regions (
		id   VARCHAR NOT NULL,
		name VARCHAR NOT NULL
	)
	`

	CreateRegionAirportsTable = `
	CREATE TABLE IF NOT EXISTS region_airports (
		region_id VARCHAR NOT NULL,
		icao_code VARCHAR NOT NULL
	)
	`

	DropFlightsTable        = `DROP TABLE IF EXISTS flights`
	DropFileProcessingTable = `DROP TABLE IF EXISTS file_processing_control`
	DropFileSequence        = `DROP SEQUENCE IF EXISTS seq_file_processing_id`

	TableColumns = `
	SELECT column_name, data_type
	FROM information_schema.columns
	WHERE table_name = ?
	ORDER BY ordinal_position
	`

	AlterFlightsSidToVarchar = `ALTER TABLE flights ALTER COLUMN sid TYPE VARCHAR`
	AddFlightsFileIDColumn   = `ALTER TABLE flights ADD COLUMN file_id INTEGER`
)

// File processing ledger

const (
	MaxFileID              = `SELECT COALESCE(MAX(id), 0) FROM file_processing_control`
	NextFileID             = `SELECT nextval('seq_file_processing_id')`
	RestartFileSequenceFmt = `CREATE SEQUENCE seq_file_processing_id START %d`

	InsertFileRecord = `
	INSERT INTO file_processing_control (id, file_name, processed_at, status)
	VALUES (nextval('seq_file_processing_id'), ?, ?, ?)
	RETURNING id
	`

	GetFileRecordByName = `
	SELECT id, file_name, processed_at, status, row_count, error_message
	FROM file_processing_control
	WHERE file_name = ?
	`

	CompleteFileRecord = `
	UPDATE file_processing_control
	SET status = ?, row_count = ?, error_message = NULL, processed_at = ?
	WHERE id = ?
	`

	FinishFileRecordWithMessage = `
	UPDATE file_processing_control
	SET status = ?, error_message = ?, processed_at = ?
	WHERE id = ?
	`

	ListFileRecords = `
	SELECT id, file_name, processed_at, status, row_count, error_message
	FROM file_processing_control
	ORDER BY processed_at DESC, id DESC
	LIMIT ?
	`

	DeleteFlightsByFileID = `DELETE FROM flights WHERE file_id = ?`
	DeleteFileRecordByID  = `DELETE FROM file_processing_control WHERE id = ?`
	CountFlights          = `SELECT COUNT(*) FROM flights`
	CountFlightsByFileID  = `SELECT COUNT(*) FROM flights WHERE file_id = ?`
	CountFileRecords      = `SELECT COUNT(*) FROM file_processing_control`
	CountOrphanFlights    = `
	SELECT COUNT(*) FROM flights f
	WHERE f.file_id IS NOT NULL
	  AND NOT EXISTS (SELECT 1 FROM file_processing_control c WHERE c.id = f.file_id)
	`
)

// Sectors

const (
	InsertSector = `
	INSERT INTO sectors (id, name, definition, t_transfer, t_comm_ag, t_separation, t_coordination,
		adjustment_factor_r, capacity_baseline, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	GetSectorByID = `
	SELECT id, name, definition, t_transfer, t_comm_ag, t_separation, t_coordination,
		adjustment_factor_r, capacity_baseline, created_at, updated_at
	FROM sectors
	WHERE id = ?
	`

	ListSectors = `
	SELECT id, name, definition, t_transfer, t_comm_ag, t_separation, t_coordination,
		adjustment_factor_r, capacity_baseline, created_at, updated_at
	FROM sectors
	ORDER BY name
	`

	UpdateSector = `
	UPDATE sectors SET
		name                = COALESCE(?, name),
		definition          = COALESCE(?, definition),
		t_transfer          = COALESCE(?, t_transfer),
		t_comm_ag           = COALESCE(?, t_comm_ag),
		t_separation        = COALESCE(?, t_separation),
		t_coordination      = COALESCE(?, t_coordination),
		adjustment_factor_r = COALESCE(?, adjustment_factor_r),
		capacity_baseline   = COALESCE(?, capacity_baseline),
		updated_at          = ?
	WHERE id = ?
	`

	DeleteSector = `DELETE FROM sectors WHERE id = ?`
)

// Regions

const (
	DeleteAllRegionAirports = `DELETE FROM region_airports`
	DeleteAllRegions        = `DELETE FROM regions`
	InsertRegion            = `INSERT INTO regions (id, name) VALUES (?, ?)`
	InsertRegionAirport     = `INSERT INTO region_airports (region_id, icao_code) VALUES (?, ?)`

	ListRegionsWithAirports = `
	SELECT r.id, r.name, ra.icao_code
	FROM regions r
	LEFT JOIN region_airports ra ON ra.region_id = r.id
	ORDER BY r.name, ra.icao_code
	`

	RegionsForAirportsFmt = `
	SELECT DISTINCT r.id, r.name
	FROM regions r
	JOIN region_airports ra ON ra.region_id = r.id
	WHERE ra.icao_code IN (%s)
	ORDER BY r.name
	`
)

// Flight analytics. Each *Fmt takes a WHERE fragment built by the filters package;
// literal percent signs are doubled for fmt.

const (
	DailyCountsFmt = `
	SELECT strftime(fecha, '%%Y-%%m-%%d') AS ds, COUNT(*) AS y
	FROM flights
	WHERE fecha IS NOT NULL AND %s
	GROUP BY fecha
	ORDER BY fecha
	`

	DurationStatsFmt = `
	SELECT COUNT(*) AS n, COALESCE(AVG(duracion), 0) AS mean_duration
	FROM flights
	WHERE %s
	`

	HourlyCountsFmt = `
	SELECT isodow(fecha) AS dow, hour(hora_salida) AS hr, COUNT(*) AS n
	FROM flights
	WHERE fecha IS NOT NULL AND hora_salida IS NOT NULL AND %s
	GROUP BY 1, 2
	`

	DistinctDatesPerDowFmt = `
	SELECT isodow(fecha) AS dow, COUNT(DISTINCT fecha) AS n
	FROM flights
	WHERE fecha IS NOT NULL AND hora_salida IS NOT NULL AND %s
	GROUP BY 1
	`

	TopAirlinesFmt = `
	SELECT empresa, COUNT(*) AS n
	FROM flights
	WHERE empresa IS NOT NULL AND empresa <> '' AND %s
	GROUP BY empresa
	ORDER BY n DESC, empresa
	LIMIT ?
	`

	// args: period expression, airline placeholders, filter fragment
	AirlinePeriodCountsFmt = `
	SELECT empresa, %s AS period, COUNT(*) AS n
	FROM flights
	WHERE fecha IS NOT NULL AND empresa IN (%s) AND %s
	GROUP BY 1, 2
	ORDER BY 2, 1
	`

	MonthlyPeriodExpr = `strftime(fecha, '%Y-%m')`
	YearlyPeriodExpr  = `CAST(year(fecha) AS VARCHAR)`
)
