/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage keeps named perspectives: serialized layout documents saved
// under a name, with a history of earlier versions per name.
// The local store is an embedded SQLite database (WAL, single writer) at the
// configured path; a PostgreSQL database can be used as a shared store.
// Both implementations run the same queries, rebound to the driver's
// placeholder style.
package storage
