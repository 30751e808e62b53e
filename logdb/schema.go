// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	creator blob(32),
	creationNum integer,
	sequenceNumber integer,
	type text,
	data blob
);

CREATE INDEX if not exists eventTypeIndex on event(type);
CREATE INDEX if not exists eventKeyIndex on event(creator, creationNum);
`
