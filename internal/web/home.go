package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Score Pad</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Score Pad</span>
        <h1>Keep score. Settle arguments.</h1>
        <p>Track any card or tabletop game round by round, or deal a full game of Podrida.</p>
      </header>

      <section class="panel">
        <div>
          <h2>New game</h2>
          <p>Name your match, pick a mode, and add at least two players.</p>
        </div>
        <form id="createForm" class="create-form">
          <input name="name" placeholder="Game name (optional)" autocomplete="off"/>
          <select name="type">
            <option value="classic">Classic scoring</option>
            <option value="podrida">Podrida</option>
          </select>
          <div id="playerRows"></div>
          <div id="recentPlayers" class="recent"></div>
          <div class="row-actions">
            <button type="button" id="addPlayer" class="secondary">Add player</button>
            <button type="submit" class="primary">Create game</button>
          </div>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Open games</h2>
        <ul id="openGames" class="game-list"></ul>
      </section>

      <section class="panel">
        <h2>Finished games</h2>
        <ul id="finishedGames" class="game-list"></ul>
      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");
      const playerRows = document.getElementById("playerRows");
      const recentBox = document.getElementById("recentPlayers");

      function addPlayerRow(name) {
        const row = document.createElement("div");
        row.className = "player-row";
        row.innerHTML = '<input class="player-name" placeholder="Player name" autocomplete="off"/>' +
          '<input class="player-color" type="color" value="#4dabf7"/>';
        if (name) row.querySelector(".player-name").value = name;
        playerRows.appendChild(row);
      }
      addPlayerRow();
      addPlayerRow();
      document.getElementById("addPlayer").addEventListener("click", () => addPlayerRow());

      async function loadRecent() {
        const res = await fetch("/api/players/recent");
        if (!res.ok) return;
        const data = await res.json();
        recentBox.textContent = "";
        for (const player of data.players || []) {
          const chip = document.createElement("button");
          chip.type = "button";
          chip.className = "chip";
          chip.textContent = player.name;
          chip.style.borderColor = player.color || "#ccc";
          chip.addEventListener("click", () => addPlayerRow(player.name));
          recentBox.appendChild(chip);
        }
      }

      function renderLists(data) {
        renderList(document.getElementById("openGames"), data.open || [], true);
        renderList(document.getElementById("finishedGames"), data.finished || [], false);
      }

      function renderList(target, games, open) {
        target.textContent = "";
        for (const game of games) {
          const item = document.createElement("li");
          const link = document.createElement("a");
          link.href = "/games/" + game.id;
          link.textContent = (game.name || game.type) + " — " + game.players + " players, " + game.rounds + " rounds";
          item.appendChild(link);
          if (open) {
            const del = document.createElement("button");
            del.className = "danger";
            del.textContent = "Delete";
            del.addEventListener("click", async () => {
              await fetch("/api/games/" + game.id, { method: "DELETE" });
              refreshGames();
            });
            item.appendChild(del);
          }
          target.appendChild(item);
        }
      }

      async function refreshGames() {
        const res = await fetch("/api/games");
        if (!res.ok) return;
        const data = await res.json();
        const open = [], finished = [];
        for (const game of data.games || []) {
          (game.status === "open" ? open : finished).push(game);
        }
        renderLists({ open, finished });
      }

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        const players = [];
        for (const row of playerRows.querySelectorAll(".player-row")) {
          const name = row.querySelector(".player-name").value.trim();
          if (!name) continue;
          players.push({ name, color: row.querySelector(".player-color").value });
        }
        if (players.length < 2) {
          createResult.textContent = "At least 2 players are required.";
          return;
        }
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({
            name: createForm.elements.name.value.trim(),
            type: createForm.elements.type.value,
            players
          })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to create game.";
          return;
        }
        window.location.href = "/games/" + data.id;
      });

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/home");
      ws.addEventListener("message", (event) => {
        renderLists(JSON.parse(event.data));
      });
      ws.addEventListener("error", () => refreshGames());

      loadRecent();
      refreshGames();
    </script>
  </body>
</html>
`)
		return nil
	})
}
