/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// Schema queries
	queryTableColumns = `
		SELECT name FROM pragma_table_info(?)`

	// User queries
	queryGetUsers = `
		SELECT COALESCE(username, '') AS username, COALESCE(password, '') AS password,
		       recycling, water_energy, habits, emissions, total
		FROM users
		ORDER BY rowid`

	queryDeleteUsers = `
		DELETE FROM users`

	queryInsertUser = `
		INSERT INTO users (username, password, recycling, water_energy, habits, emissions, total)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// History queries
	queryGetHistory = `
		SELECT COALESCE(id, '') AS id, COALESCE(username, '') AS username, snapshot_date,
		       recycling, water_energy, habits, emissions, total
		FROM history
		ORDER BY rowid`

	queryInsertSnapshot = `
		INSERT INTO history (id, username, snapshot_date, recycling, water_energy, habits, emissions, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Marker queries
	queryGetMarker = `
		SELECT last_rollover_date
		FROM rollover_marker
		WHERE id = 1`

	querySeedMarker = `
		INSERT OR IGNORE INTO rollover_marker (id, last_rollover_date) VALUES (1, ?)`

	queryUpsertMarker = `
		INSERT INTO rollover_marker (id, last_rollover_date) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET last_rollover_date = excluded.last_rollover_date`
)
