package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// GameView renders the scoreboard shell for one game. The page pulls
// its state from the API and stays current over the game websocket.
func GameView(gameID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Score Pad</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body data-game-id="`+templ.EscapeString(gameID)+`">
    <main class="shell">
      <header class="hero">
        <a href="/" class="tag">Score Pad</a>
        <h1 id="gameTitle">Loading…</h1>
        <p id="gameMeta"></p>
      </header>

      <section class="panel">
        <table class="scoreboard">
          <thead><tr id="scoreHead"></tr></thead>
          <tbody id="scoreBody"></tbody>
          <tfoot><tr id="scoreTotals"></tr></tfoot>
        </table>
      </section>

      <section class="panel" id="actions">
        <div id="roundForm"></div>
        <div class="row-actions">
          <button id="finishGame" class="danger">Finish game</button>
        </div>
        <div id="actionResult" class="result"></div>
      </section>
    </main>

    <script>
      const gameID = document.body.dataset.gameId;
      const actionResult = document.getElementById("actionResult");
      let game = null;

      function render(state) {
        game = state;
        document.getElementById("gameTitle").textContent = state.name || state.type;
        let meta = state.type + " · " + state.status;
        if (state.type === "podrida") {
          meta += state.next_cards == null
            ? " · sequence complete"
            : " · next round deals " + state.next_cards + " cards";
        }
        document.getElementById("gameMeta").textContent = meta;
        renderTable(state);
        renderForm(state);
        document.getElementById("finishGame").style.display =
          state.status === "open" ? "" : "none";
      }

      function renderTable(state) {
        const head = document.getElementById("scoreHead");
        head.innerHTML = "<th>Round</th>";
        for (const player of state.players) {
          const th = document.createElement("th");
          th.textContent = player.name;
          th.style.color = player.color || "inherit";
          head.appendChild(th);
        }
        const body = document.getElementById("scoreBody");
        body.textContent = "";
        state.rounds.forEach((round, i) => {
          const tr = document.createElement("tr");
          let label = String(i + 1);
          if (round.type === "podrida") label += " (" + round.cards_count + " cards)";
          tr.innerHTML = "<td>" + label + "</td>";
          for (const player of state.players) {
            const entry = (round.entries || []).find(e => e.player_id === player.id);
            const td = document.createElement("td");
            if (entry) {
              const sign = entry.delta >= 0 ? "+" : "";
              td.textContent = entry.total_after + " (" + sign + entry.delta + ")";
              if (round.bets_by_player_id && player.id in round.bets_by_player_id) {
                td.textContent += " bet " + round.bets_by_player_id[player.id];
              }
            }
            tr.appendChild(td);
          }
          body.appendChild(tr);
        });
        const totals = document.getElementById("scoreTotals");
        totals.innerHTML = "<td>Total</td>";
        for (const player of state.players) {
          const td = document.createElement("td");
          td.textContent = state.totals[player.id] ?? 0;
          totals.appendChild(td);
        }
      }

      function renderForm(state) {
        const box = document.getElementById("roundForm");
        box.textContent = "";
        if (state.status !== "open") return;
        if (state.type === "classic") {
          box.appendChild(scoreForm(state, "Add round", "add", "/rounds", "values"));
        } else if (state.next_cards != null) {
          const betsPending = Object.keys(state.pending_bets || {}).length === state.players.length;
          if (!betsPending) {
            box.appendChild(scoreForm(state, "Commit bets for " + state.next_cards + " cards", null, "/bets", "bets"));
          } else {
            box.appendChild(scoreForm(state, "Record totals (" + state.next_cards + " cards)", null, "/podrida-rounds", "totals"));
          }
        }
      }

      function scoreForm(state, title, withMode, path, field) {
        const form = document.createElement("form");
        const heading = document.createElement("h2");
        heading.textContent = title;
        form.appendChild(heading);
        if (withMode) {
          const select = document.createElement("select");
          select.name = "mode";
          select.innerHTML = '<option value="add">Add to totals</option><option value="set">Set totals</option>';
          form.appendChild(select);
        }
        for (const player of state.players) {
          const label = document.createElement("label");
          label.textContent = player.name;
          const input = document.createElement("input");
          input.type = "number";
          input.step = "any";
          input.dataset.player = player.id;
          label.appendChild(input);
          form.appendChild(label);
        }
        const submit = document.createElement("button");
        submit.type = "submit";
        submit.className = "primary";
        submit.textContent = "Save";
        form.appendChild(submit);
        form.addEventListener("submit", async (event) => {
          event.preventDefault();
          const values = {};
          for (const input of form.querySelectorAll("input[data-player]")) {
            if (input.value !== "") values[input.dataset.player] = Number(input.value);
          }
          const payload = {};
          payload[field] = values;
          if (withMode) payload.mode = form.elements.mode.value;
          const res = await fetch("/api/games/" + gameID + path, {
            method: "POST",
            headers: { "Content-Type": "application/json" },
            body: JSON.stringify(payload)
          });
          const data = await res.json();
          if (!res.ok) {
            actionResult.textContent = data.error || "Failed to save.";
            return;
          }
          actionResult.textContent = "";
          render(data);
        });
        return form;
      }

      document.getElementById("finishGame").addEventListener("click", async () => {
        const res = await fetch("/api/games/" + gameID + "/finish", { method: "POST" });
        const data = await res.json();
        if (!res.ok) {
          actionResult.textContent = data.error || "Failed to finish game.";
          return;
        }
        render(data);
      });

      async function load() {
        const res = await fetch("/api/games/" + gameID);
        if (!res.ok) {
          window.location.href = "/";
          return;
        }
        render(await res.json());
      }

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/games/" + gameID);
      ws.addEventListener("message", (event) => render(JSON.parse(event.data)));
      ws.addEventListener("error", () => load());

      load();
    </script>
  </body>
</html>
`)
		return nil
	})
}
